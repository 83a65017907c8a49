package vision

const metadataPrompt = `Analyze this artwork and provide ONLY the following information in this EXACT JSON format (no additional text):
{
  "paintingName": "exact title of the painting",
  "artist": "full name of the artist",
  "genre": "art movement or genre (e.g., Impressionism, Renaissance, Modern Art)"
}`

const historicalPrompt = `Provide a historical and descriptive analysis of this artwork. Include:
- Historical context and period
- Artistic significance
- What the image depicts
- Cultural importance

IMPORTANT: Your response must be EXACTLY 500 characters or less. Be concise and informative, like a museum description.`

const immersivePrompt = `Describe this artwork in a poetic, immersive way that captures:
- Color palette and lighting (be specific)
- Atmosphere and mood
- Emotions evoked
- Sensory details

Write in present tense, as if describing a living moment. Make it vivid and evocative.

IMPORTANT: Your response must be EXACTLY 400 characters or less. Focus on sensory details and emotional weight.`
