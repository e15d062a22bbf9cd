package eventmodels

type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

func (t OptionType) IsValid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}
