package symbol

import "strings"

type OKXConverter struct{}

func (OKXConverter) ToExchange(internal string) string {
	s := strings.ToUpper(strings.TrimSpace(internal))
	if s == "" {
		return ""
	}
	return strings.ReplaceAll(s, "/", "-")
}

func (OKXConverter) FromExchange(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		if len(parts) == 2 {
			return parts[0] + "/" + parts[1]
		}
	}
	return Parse(s).Internal()
}

func (OKXConverter) Format() Format {
	return FormatOKX
}

var OKX = OKXConverter{}
