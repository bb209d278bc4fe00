package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

const calendarDate = "2006-01-02"

// decodeDocument decodes a YAML or JSON document into out. Quoted calendar dates
// ("2023-02-01", the form JSON clients send) decode the same way unquoted YAML dates do.
func decodeDocument(data []byte, out interface{}) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind == 0 {
		return nil
	}
	retagDates(&doc)
	return doc.Decode(out)
}

// retagDates marks quoted scalars holding a calendar date as timestamps.
func retagDates(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" &&
		n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		if _, err := time.Parse(calendarDate, n.Value); err == nil {
			n.Tag = "!!timestamp"
		}
	}
	for _, c := range n.Content {
		retagDates(c)
	}
}
