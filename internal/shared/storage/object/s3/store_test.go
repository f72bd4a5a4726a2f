package s3

import (
	"errors"
	"fmt"
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "uploads/1-a.pdf", want: "uploads/1-a.pdf"},
		{name: "simple prefix", prefix: "root", key: "uploads/1-a.pdf", want: "root/uploads/1-a.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "uploads/1-a.pdf", want: "root/uploads/1-a.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/uploads/1-a.pdf", want: "root/uploads/1-a.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "uploads/1-a.pdf", want: "root/sub/uploads/1-a.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("wrapped: %w", &s3types.NoSuchKey{})) {
		t.Fatalf("expected NoSuchKey to be not found")
	}
	if !isNotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Fatalf("expected generic NotFound to be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected plain error to be found")
	}
	if got := apiErrorCode(&smithy.GenericAPIError{Code: "PreconditionFailed"}); got != "PreconditionFailed" {
		t.Fatalf("unexpected code %q", got)
	}
}
