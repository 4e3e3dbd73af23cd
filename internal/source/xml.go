package source

import (
	"fmt"
	"html"
	"strings"

	"aqwari.net/xml/xmltree"
)

// ReadXML parses an XML document. Attributes become attributes; the text of
// elements without child elements is stored under TextAttribute.
func ReadXML(data []byte) (*Element, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing xml: %w", err)
	}

	return fromXML(root), nil
}

func fromXML(x *xmltree.Element) *Element {
	e := NewElement(x.Name.Local)

	for _, attr := range x.StartElement.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}

		e.SetAttribute(attr.Name.Local, attr.Value)
	}

	if len(x.Children) == 0 {
		e.SetText(strings.TrimSpace(html.UnescapeString(string(x.Content))))
	}

	for i := range x.Children {
		e.AddChild(fromXML(&x.Children[i]))
	}

	return e
}
