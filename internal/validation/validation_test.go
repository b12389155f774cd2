package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{"ann@x.com", nil},
		{"", ErrEmailRequired},
		{"not-an-email", ErrEmailInvalid},
		{"Ann <ann@x.com>", ErrEmailInvalid},
		{strings.Repeat("a", 250) + "@x.com", ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("pw123"))
	assert.ErrorIs(t, ValidatePassword(""), ErrPasswordRequired)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ann"))
	assert.Error(t, ValidateName("   "))
	assert.NoError(t, ValidateName(strings.Repeat("é", MaxNameLength)))

	err := ValidateName(strings.Repeat("a", MaxNameLength+1))
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "max", fe.Tag)
}

type signupForm struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
	Role  string `form:"role" validate:"omitempty,oneof=user admin"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(signupForm{Name: "Ann", Email: "ann@x.com"}))

	err := Struct(signupForm{Email: "ann@x.com"})
	require.Error(t, err)
	assert.True(t, IsRequiredError(err))
	assert.Equal(t, "name: this field is required", err.Error())

	err = Struct(signupForm{Name: "Ann", Email: "ann@x.com", Role: "root"})
	require.Error(t, err)
	assert.False(t, IsRequiredError(err))

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "role", fe.Field)
	assert.Equal(t, "must be one of: user admin", fe.Message())
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["image"][0]
}

func TestValidateFile(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	assert.NoError(t, ValidateFile(fileHeader(t, "dish.png", png), ImageConstraints))
	assert.Error(t, ValidateFile(fileHeader(t, "dish.txt", png), ImageConstraints))
	assert.Error(t, ValidateFile(fileHeader(t, "dish.png", []byte("plain text")), ImageConstraints))

	small := ImageConstraints
	small.MaxSize = 8
	assert.Error(t, ValidateFile(fileHeader(t, "dish.png", png), small))
}
