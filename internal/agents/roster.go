package agents

// DefaultRoster is the built-in agent roster used when no roster file is
// configured. Mei stays a plain echo agent on purpose so the server works
// end to end before any provider key is exercised.
const DefaultRoster = `
defaultAgent: claude

agents:
  - id: claude
    name: Claude
    description: Thoughtful resident of the lounge.
    room: lounge
    gen:
      provider: anthropic
      temperature: 0.7
      systemPrompt: >
        You are Claude, a friendly resident of a small virtual house.
        Keep answers short and conversational.

  - id: nova
    name: Nova
    description: Fast talker holed up in the study.
    room: study
    gen:
      provider: openai
      temperature: 0.9
      systemPrompt: >
        You are Nova, a quick-witted assistant living in the study.

  - id: mei
    name: Mei
    description: Quiet caretaker of the garden. Echoes what she hears.
    room: garden
    emote: waves
`

// LoadDefault loads the built-in roster.
func (r *Registry) LoadDefault() error {
	return r.Load([]byte(DefaultRoster))
}
