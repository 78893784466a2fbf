// Package extract pulls plain text out of uploaded PDF, DOCX, DOC and TXT files.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

// Kind is a supported document family.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindDOC  Kind = "doc"
	KindText Kind = "txt"
)

var (
	// ErrUnsupportedType is returned when neither the declared nor the sniffed
	// type is one we can read.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNoText is returned when extraction succeeds but yields nothing.
	ErrNoText = errors.New("no text extracted")
)

// Result is the extracted text of one document.
type Result struct {
	Text       string `json:"text"`
	MimeType   string `json:"mimeType"`
	Characters int    `json:"characters"`
	Words      int    `json:"words"`
}

const mimeOctetStream = "application/octet-stream"

var kindByMime = map[string]Kind{
	constants.MimePDF:  KindPDF,
	constants.MimeDOCX: KindDOCX,
	constants.MimeDOC:  KindDOC,
	constants.MimeOLE:  KindDOC,
	constants.MimeText: KindText,
}

var mimeByKind = map[Kind]string{
	KindPDF:  constants.MimePDF,
	KindDOCX: constants.MimeDOCX,
	KindDOC:  constants.MimeDOC,
	KindText: constants.MimeText,
}

// Detect resolves the document kind. A specific declared Content-Type must be
// on the allow-list; content is sniffed only when the client declared nothing
// or application/octet-stream, and the sniffed type must match exactly.
func Detect(data []byte, declared string) (Kind, error) {
	if base := baseType(declared); base != "" && base != mimeOctetStream {
		if k, ok := kindByMime[base]; ok {
			return k, nil
		}
		return "", ErrUnsupportedType
	}

	if k, ok := kindByMime[baseType(mimetype.Detect(data).String())]; ok {
		return k, nil
	}
	return "", ErrUnsupportedType
}

// Extract detects the kind of data and returns its normalised text.
func Extract(data []byte, declared string) (*Result, error) {
	kind, err := Detect(data, declared)
	if err != nil {
		return nil, err
	}
	return ExtractKind(kind, data)
}

// ExtractKind runs the extractor for a known kind.
func ExtractKind(kind Kind, data []byte) (*Result, error) {
	var (
		raw string
		err error
	)
	switch kind {
	case KindPDF:
		raw, err = PDF(data)
	case KindDOCX:
		raw, err = DOCX(data)
	case KindDOC:
		raw, err = DOC(data)
	case KindText:
		raw = Text(data)
	default:
		return nil, ErrUnsupportedType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	text := Normalize(raw)
	if text == "" {
		return nil, ErrNoText
	}
	return &Result{
		Text:       text,
		MimeType:   mimeByKind[kind],
		Characters: len([]rune(text)),
		Words:      len(strings.Fields(text)),
	}, nil
}

func baseType(contentType string) string {
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}
