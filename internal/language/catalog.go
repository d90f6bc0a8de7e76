package language

// Option — один язык из выпадающего списка.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultCode — язык, выбранный при старте сессии.
const DefaultCode = "hi"

var options = []Option{
	{Code: "hi", Name: "Hindi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "ta", Name: "Tamil"},
	{Code: "te", Name: "Telugu"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "mr", Name: "Marathi"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "kn", Name: "Kannada"},
	{Code: "pa", Name: "Punjabi"},
	{Code: "or", Name: "Odia"},
	{Code: "as", Name: "Assamese"},
}

// All returns the catalog in display order. The slice is a copy.
func All() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Name returns the display name for code, or the code itself when it is unknown.
func Name(code string) string {
	for _, o := range options {
		if o.Code == code {
			return o.Name
		}
	}
	return code
}

func Valid(code string) bool {
	for _, o := range options {
		if o.Code == code {
			return true
		}
	}
	return false
}

// Next — следующий код по кругу (для переключения в терминале).
func Next(code string) string {
	for i, o := range options {
		if o.Code == code {
			return options[(i+1)%len(options)].Code
		}
	}
	return options[0].Code
}
