package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type person struct {
	Age    string `json:"age" validate:"notblank"`
	Gender string `json:"gender" validate:"required"`
}

type form struct {
	My     person `json:"my"`
	Choice string `json:"selectedChoice" validate:"oneof=a b c d"`
	Note   string `json:"note,omitempty" validate:"max=5"`
}

func TestValidate_OK(t *testing.T) {
	f := form{My: person{Age: "24", Gender: "女性"}, Choice: "b"}
	assert.Nil(t, Validate(f))
}

func TestValidate_ReportsJSONPaths(t *testing.T) {
	f := form{My: person{Age: "  "}, Choice: "e", Note: "123456"}

	got := Validate(f)
	assert.Equal(t, []FieldError{
		{Field: "my.age", Message: "my.ageは必須項目です"},
		{Field: "my.gender", Message: "my.genderは必須項目です"},
		{Field: "selectedChoice", Message: "selectedChoiceは a, b, c, d のいずれかを指定してください"},
		{Field: "note", Message: "noteは5文字以内で入力してください"},
	}, got)
}

func TestValidate_Pointer(t *testing.T) {
	f := &form{My: person{Age: "30", Gender: "男性"}, Choice: "a"}
	assert.Empty(t, Validate(f))
}
