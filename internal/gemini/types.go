package gemini

// RequestData is the input JSON structure sent to Gemini.
type RequestData struct {
	Text string `json:"text"`
}

// ResponseData is the output JSON structure expected from Gemini.
type ResponseData struct {
	Translation string `json:"translation"`
}
