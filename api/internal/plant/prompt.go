package plant

const ImageMIME = "image/jpeg"

// Prompt is sent as the first part of every upstream request.
const Prompt = "You are Herbula, a plant identification expert.\n" +
	"Analyze the image(s) and return ONLY valid JSON (no markdown):\n" +
	"{\n" +
	" \"name\": \"Common or scientific name\",\n" +
	" \"description\": \"1-2 sentence description\",\n" +
	" \"uses\": \"Traditional or modern uses\",\n" +
	" \"health_benefits\": \"Known medicinal benefits\",\n" +
	" \"problems_solved\": \"Health issues it may help with\",\n" +
	" \"category\": \"herbal\" | \"poisonous\" | \"non_herbal\"\n" +
	"}\n"

// ----- generateContent wire format (минимально необходимая часть) -----

type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type GenerateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// BuildRequest собирает тело generateContent: текст промпта, затем по одной
// inline-картинке на каждый base64 в исходном порядке. base64 не перекодируется.
func BuildRequest(images []string) GenerateRequest {
	parts := make([]Part, 0, len(images)+1)
	parts = append(parts, Part{Text: Prompt})
	for _, b64 := range images {
		parts = append(parts, Part{InlineData: &InlineData{MimeType: ImageMIME, Data: b64}})
	}
	return GenerateRequest{Contents: []Content{{Parts: parts}}}
}
