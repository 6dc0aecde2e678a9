package archive

import (
	"encoding/xml"
	"fmt"
)

// Text is a possibly localized metadata string.
type Text struct {
	Lang  string `xml:"lang,attr" toml:"lang,omitempty"`
	Value string `xml:",chardata" toml:"value"`
}

// Texts holds the translations of one metadata string.
type Texts []Text

// Get returns the text for lang, falling back to the first entry.
func (t Texts) Get(lang string) string {
	for _, x := range t {
		if x.Lang == lang {
			return x.Value
		}
	}
	if len(t) > 0 {
		return t[0].Value
	}
	return ""
}

// SpellerMetadata describes a speller: its locale and the two transducers.
type SpellerMetadata struct {
	XMLName  xml.Name         `xml:"hfstspeller" toml:"-" json:"-"`
	Info     InfoMetadata     `xml:"info" toml:"info"`
	Acceptor AcceptorMetadata `xml:"acceptor" toml:"acceptor"`
	ErrModel ErrModelMetadata `xml:"errmodel" toml:"errmodel"`
}

type InfoMetadata struct {
	Locale      string `xml:"locale" toml:"locale"`
	Title       Texts  `xml:"title" toml:"title"`
	Description Texts  `xml:"description" toml:"description"`
	Producer    string `xml:"producer" toml:"producer"`
}

type AcceptorMetadata struct {
	Type        string `xml:"type,attr" toml:"type"`
	ID          string `xml:"id,attr" toml:"id"`
	Title       Texts  `xml:"title" toml:"title"`
	Description Texts  `xml:"description" toml:"description"`
}

type ErrModelMetadata struct {
	ID          string      `xml:"id,attr" toml:"id"`
	Title       Texts       `xml:"title" toml:"title"`
	Description Texts       `xml:"description" toml:"description"`
	Types       []ModelType `xml:"type" toml:"types"`
	Models      []string    `xml:"model" toml:"models"`
}

// ModelType is an <errmodel><type type="..."/> entry.
type ModelType struct {
	Type string `xml:"type,attr" toml:"type"`
}

// ParseMetadata decodes a zhfst index.xml document.
func ParseMetadata(data []byte) (*SpellerMetadata, error) {
	var m SpellerMetadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return &m, nil
}
