package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.LinkInput
		field   string
		message string
	}{
		{name: "Valid", in: domain.LinkInput{Title: "X", URL: "https://x.test", Category: "software"}},
		{name: "Missing Title", in: domain.LinkInput{URL: "https://x.test", Category: "software"}, field: "title", message: "is required"},
		{name: "Missing URL", in: domain.LinkInput{Title: "X", Category: "software"}, field: "url", message: "is required"},
		{name: "Bad URL", in: domain.LinkInput{Title: "X", URL: "not a url", Category: "software"}, field: "url", message: "must be an http or https URL"},
		{name: "Script URL", in: domain.LinkInput{Title: "X", URL: "javascript:alert(document.cookie)", Category: "software"}, field: "url", message: "must be an http or https URL"},
		{name: "FTP URL", in: domain.LinkInput{Title: "X", URL: "ftp://files.test/a", Category: "software"}, field: "url", message: "must be an http or https URL"},
		{name: "Missing Category", in: domain.LinkInput{Title: "X", URL: "https://x.test"}, field: "category", message: "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}
