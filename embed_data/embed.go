package embed_data

import _ "embed"

//go:embed prompts/readme_generator_prompt.tmpl
var ReadmeGeneratorPrompt []byte

//go:embed models_details.json
var ModelDetails []byte
