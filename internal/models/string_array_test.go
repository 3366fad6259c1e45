package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayScan(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"json array", `["Go","gin"]`, []string{"Go", "gin"}},
		{"bytes", []byte(`["React"]`), []string{"React"}},
		{"json string", `"React, Node.js"`, []string{"React", "Node.js"}},
		{"plain csv", "React, Node.js,  , TypeScript", []string{"React", "Node.js", "TypeScript"}},
		{"null", nil, []string{}},
		{"empty", "  ", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a StringArray
			require.NoError(t, a.Scan(tc.in))
			assert.Equal(t, tc.want, []string(a))
		})
	}

	var a StringArray
	assert.Error(t, a.Scan(42))
}

func TestStringArrayNilRendersEmpty(t *testing.T) {
	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	raw, err := json.Marshal(struct {
		Tech StringArray `json:"tech"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tech":[]}`, string(raw))
}

func TestProjectImageRef(t *testing.T) {
	p := &ProjectModel{}
	assert.True(t, p.ImageRef().IsZero())

	p.SetImage(ImageRef{URL: "https://cdn.example.com/projects/a.png", Key: "projects/a.png"})
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "projects/a.png", p.ImageKey)
	assert.Equal(t, ImageRef{URL: "https://cdn.example.com/projects/a.png", Key: "projects/a.png"}, p.ImageRef())

	p.SetImage(ImageRef{})
	assert.Nil(t, p.ImageURL)
	assert.Empty(t, p.ImageKey)
}
