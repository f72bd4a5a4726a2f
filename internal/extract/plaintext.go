package extract

// PlainTextExtractor returns text/plain payloads verbatim.
type PlainTextExtractor struct{}

func (PlainTextExtractor) MediaType() string { return MediaTypePlainText }

func (PlainTextExtractor) Extension() string { return "txt" }

func (PlainTextExtractor) Extract(data []byte) (string, error) {
	return string(data), nil
}
