package source

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// ReadJSON parses a JSON document. When selector is not empty it is
// evaluated as a JSONPath expression and the first match is used as the
// document. The document must be an object with a single member naming the
// root element. Object members are visited in sorted key order.
func ReadJSON(data []byte, selector string) (*Element, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	if selector != "" {
		x, err := jp.ParseString(selector)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonpath %q: %w", selector, err)
		}

		matches := x.Get(parsed)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: jsonpath %q matches nothing", ErrInvalidDocument, selector)
		}

		parsed = matches[0]
	}

	name, value, err := singleRoot(parsed)
	if err != nil {
		return nil, err
	}

	return treeElement(name, value), nil
}
