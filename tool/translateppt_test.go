package tool

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/tools"

	"github.com/polyglotkit/polyglot/pptx"
	"github.com/polyglotkit/polyglot/translate"
)

var _ tools.Tool = (*TranslatePPT)(nil)

// singleSlideDeck builds a minimal presentation with one text shape.
func singleSlideDeck(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	add("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/></Types>`)
	add("ppt/presentation.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst><p:sldId id="256" r:id="rId1"/></p:sldIdLst></p:presentation>`)
	add("ppt/_rels/presentation.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/></Relationships>`)
	add("ppt/slides/slide1.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/><p:sp><p:nvSpPr><p:cNvPr id="2" name="TextBox"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>`+text+`</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestTranslatePPTCall(t *testing.T) {
	deck := singleSlideDeck(t, "Hello")
	tool := NewTranslatePPT(pptx.NewJob(translate.Static{"Hello": "Bonjour"}))

	input, err := json.Marshal(map[string]string{
		"source_lang":  "en",
		"target_lang":  "fr",
		"file_name":    "deck.pptx",
		"file_content": base64.StdEncoding.EncodeToString(deck),
	})
	require.NoError(t, err)

	out, err := tool.Call(context.Background(), string(input))
	require.NoError(t, err)

	var resp struct {
		Success     bool   `json:"success"`
		FileName    string `json:"file_name"`
		FileContent string `json:"file_content"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "translated_deck.pptx", resp.FileName)

	translated, err := base64.StdEncoding.DecodeString(resp.FileContent)
	require.NoError(t, err)

	pres, err := pptx.Open(translated)
	require.NoError(t, err)
	require.NotEmpty(t, pres.Slides())
	shapes := pres.Slides()[0].Shapes()
	require.NotEmpty(t, shapes)
	assert.Equal(t, "Bonjour", shapes[0].TextFrame().Text())
}

func TestTranslatePPTCallBadRequests(t *testing.T) {
	tool := NewTranslatePPT(pptx.NewJob(translate.Static{}))

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"invalid json", "not json", "invalid request"},
		{"missing file", `{"source_lang":"en","target_lang":"fr"}`, "file_content"},
		{"missing languages", `{"file_content":"AAAA"}`, "source_lang and target_lang"},
		{"bad base64", `{"source_lang":"en","target_lang":"fr","file_content":"!!!"}`, "base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tool.Call(context.Background(), tt.input)
			require.NoError(t, err, "request problems are reported in the envelope")

			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.message)
		})
	}
}

func TestTranslatePPTCallCorruptDeck(t *testing.T) {
	tool := NewTranslatePPT(pptx.NewJob(translate.Static{}))

	input, err := json.Marshal(map[string]string{
		"source_lang":  "en",
		"target_lang":  "fr",
		"file_content": base64.StdEncoding.EncodeToString([]byte("not a pptx")),
	})
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), string(input))
	assert.ErrorContains(t, err, "translation failed")
}

func TestTranslatedFileName(t *testing.T) {
	assert.Equal(t, "translated_deck.pptx", translatedFileName("deck.pptx"))
	assert.Equal(t, "translated_deck.ppt", translatedFileName("deck.ppt"))
	assert.Equal(t, "translated_deck.pptx", translatedFileName("deck"))
	assert.Equal(t, "translated_presentation.pptx", translatedFileName(""))
}
