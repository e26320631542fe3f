package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindHeader(t *testing.T) {
	t.Parallel()

	type normalCase struct {
		SessionID string `header:"x-session-id"`
		Service   string `header:"service"`

		Non   string `header:"-"`
		Empty bool
	}

	type complexCase struct {
		Nine              int64   `header:"nine"`
		ThousandAndSeven  uint64  `header:"thousand-and-seven"`
		NegativeThirtyTwo int64   `header:"negative-thirty-two"`
		HundredPointSix   float32 `header:"hundred-point-six"`
		Rose              string  `header:"rose"`
	}

	tests := []struct {
		name   string
		header map[string]string
		out    any
		want   any
	}{
		{
			name: "normal bind header",
			header: map[string]string{
				"x-session-id": "s-123",
				"service":      "storefront",
				"non":          "non",
				"empty":        "empty",
			},
			out:  new(normalCase),
			want: &normalCase{SessionID: "s-123", Service: "storefront"},
		},
		{
			name: "complex bind header",
			header: map[string]string{
				"nine":                "9",
				"thousand-and-seven":  "1007",
				"negative-thirty-two": "-32",
				"hundred-point-six":   "100.6",
				"rose":                "rose",
			},
			out: new(complexCase),
			want: &complexCase{
				Nine:              9,
				ThousandAndSeven:  1007,
				NegativeThirtyTwo: -32,
				HundredPointSix:   100.6,
				Rose:              "rose",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			header := http.Header{}
			for k, v := range tt.header {
				header.Set(k, v)
			}
			require.NoError(t, bindHeader(header, tt.out))
			assert.EqualValues(t, tt.want, tt.out)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	t.Parallel()

	type request struct {
		SessionID string `json:"-" header:"X-Session-ID" validate:"required,max=8"`
		Style     string `json:"style" validate:"max=10"`
	}

	newContext := func(body, session string) echo.Context {
		e := echo.New()
		e.Validator = NewValidator()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/preferences", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if session != "" {
			req.Header.Set("X-Session-ID", session)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		var req request
		require.NoError(t, BindAndValidate(newContext(`{"style":"boho"}`, "s1"), &req))
		assert.Equal(t, request{SessionID: "s1", Style: "boho"}, req)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		var req request
		err := BindAndValidate(newContext(`{"style":`, "s1"), &req)
		var re *ResponseError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, http.StatusBadRequest, re.Status)
		assert.Equal(t, "Invalid request format", re.Message)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		var req request
		err := BindAndValidate(newContext(`{}`, ""), &req)
		var re *ResponseError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, http.StatusBadRequest, re.Status)
		assert.Equal(t, "X-Session-ID failed on required", re.Message)
	})
}
