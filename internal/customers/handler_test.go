package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"0532 111 22 33":    "05321112233",
		"(0532) 111-22-33":  "05321112233",
		" +90.532.111.2233": "+905321112233",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}
