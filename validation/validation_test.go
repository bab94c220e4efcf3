package validation

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/giygas/mediscript-api/entities"
)

func TestValidateMedicine(t *testing.T) {
	tests := []struct {
		name      string
		input     entities.MedicineInput
		want      entities.Medicine
		wantField string
	}{
		{
			name:  "valid numeric string price",
			input: entities.MedicineInput{Name: "Aspirin", Potency: "100mg", Price: "5.5"},
			want:  entities.Medicine{Name: "Aspirin", Potency: "100mg", Price: 5.5},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: entities.MedicineInput{Name: "  Aspirin ", Potency: "\t100mg\n", Price: " 7 "},
			want:  entities.Medicine{Name: "Aspirin", Potency: "100mg", Price: 7},
		},
		{
			name:  "zero price is allowed",
			input: entities.MedicineInput{Name: "Sample", Potency: "1tablet", Price: "0"},
			want:  entities.Medicine{Name: "Sample", Potency: "1tablet", Price: 0},
		},
		{name: "empty name", input: entities.MedicineInput{Name: "", Potency: "1mg", Price: "1"}, wantField: "name"},
		{name: "blank name", input: entities.MedicineInput{Name: "   ", Potency: "1mg", Price: "1"}, wantField: "name"},
		{name: "empty potency", input: entities.MedicineInput{Name: "X", Potency: " ", Price: "1"}, wantField: "potency"},
		{name: "missing price", input: entities.MedicineInput{Name: "X", Potency: "1mg"}, wantField: "price"},
		{name: "non numeric price", input: entities.MedicineInput{Name: "X", Potency: "1mg", Price: "cheap"}, wantField: "price"},
		{name: "negative price", input: entities.MedicineInput{Name: "X", Potency: "1mg", Price: "-2"}, wantField: "price"},
		{name: "NaN price", input: entities.MedicineInput{Name: "X", Potency: "1mg", Price: "NaN"}, wantField: "price"},
		{name: "infinite price", input: entities.MedicineInput{Name: "X", Potency: "1mg", Price: "Inf"}, wantField: "price"},
		{name: "name too long", input: entities.MedicineInput{Name: strings.Repeat("a", 201), Potency: "1mg", Price: "1"}, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateMedicine(tt.input)

			if tt.wantField != "" {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("Expected ValidationError, got %v", err)
				}
				if vErr.Field != tt.wantField {
					t.Errorf("Expected field %s, got %s", tt.wantField, vErr.Field)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

// newUploadRequest builds a multipart request with one part per file
func newUploadRequest(t *testing.T, field string, files map[string][]byte, contentType string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, data := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/prescription/process", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestValidateUploadAccepted(t *testing.T) {
	policy := UploadPolicy{FieldName: "prescription", MaxSize: 1024}
	req := newUploadRequest(t, "prescription", map[string][]byte{"rx.jpg": bytes.Repeat([]byte{0xff}, 512)}, "image/jpeg")

	info, err := policy.ValidateUpload(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := entities.FileInfo{Filename: "rx.jpg", MimeType: "image/jpeg", Size: 512}
	if info != want {
		t.Errorf("Expected %+v, got %+v", want, info)
	}
}

func TestValidateUploadRejected(t *testing.T) {
	policy := UploadPolicy{FieldName: "prescription", MaxSize: 1024}

	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		reason RejectReason
	}{
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
			},
			reason: RejectMissing,
		},
		{
			name: "wrong field name",
			req: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "image", map[string][]byte{"rx.png": {1}}, "image/png")
			},
			reason: RejectMissing,
		},
		{
			name: "non image type",
			req: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "prescription", map[string][]byte{"rx.pdf": {1}}, "application/pdf")
			},
			reason: RejectType,
		},
		{
			name: "file over the limit",
			req: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "prescription", map[string][]byte{"rx.png": make([]byte, 1025)}, "image/png")
			},
			reason: RejectTooLarge,
		},
		{
			name: "body over the multipart limit",
			req: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "prescription", map[string][]byte{"rx.png": make([]byte, 1024+multipartOverhead+1)}, "image/png")
			},
			reason: RejectTooLarge,
		},
		{
			name: "two files",
			req: func(t *testing.T) *http.Request {
				return newUploadRequest(t, "prescription", map[string][]byte{"a.png": {1}, "b.png": {2}}, "image/png")
			},
			reason: RejectMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.ValidateUpload(httptest.NewRecorder(), tt.req(t))

			var rejected *UploadRejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("Expected UploadRejectedError, got %v", err)
			}
			if rejected.Reason != tt.reason {
				t.Errorf("Expected reason %s, got %s (%v)", tt.reason, rejected.Reason, err)
			}
		})
	}
}
