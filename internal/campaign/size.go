package campaign

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size follows the 5e creature and object size categories.
type Size int

const (
	SizeTiny Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
	SizeGargantuan
)

var sizeNames = map[Size]string{
	SizeTiny:       "tiny",
	SizeSmall:      "small",
	SizeMedium:     "medium",
	SizeLarge:      "large",
	SizeHuge:       "huge",
	SizeGargantuan: "gargantuan",
}

func (s Size) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return "medium"
}

// ParseSize maps a size name to its category. Unknown names are an error;
// callers that want a fallback should use SizeMedium.
func ParseSize(name string) (Size, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for size, known := range sizeNames {
		if known == needle {
			return size, nil
		}
	}
	return SizeMedium, fmt.Errorf("unknown size: %s", name)
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	size, err := ParseSize(name)
	if err != nil {
		return err
	}
	*s = size
	return nil
}
