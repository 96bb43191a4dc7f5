package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsPersonalData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/orders"),
		attribute.String("customer_phone", "+8801700000000"),
		attribute.String("voucher_code", "SAVE10"),
		attribute.String("http.method", " "),
		attribute.Int("http.status_code", 201),
	)
	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		keys = append(keys, string(attr.Key))
	}
	assert.ElementsMatch(t, []string{"http.route", "http.status_code"}, keys)
}

func TestSafeErrorKeepsFirstLine(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	err := SafeError(errors.New("insert order: boom\nstack trace follows"))
	assert.Equal(t, "insert order: boom", err.Error())

	long := SafeError(errors.New(strings.Repeat("x", 300)))
	assert.Len(t, long.Error(), 256)
}
