package utility

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseTransformTag(t *testing.T) {
	config, err := ParseTransformTag("str_objectid,optional,map=AssignedTo")
	if err != nil {
		t.Fatalf("ParseTransformTag: %v", err)
	}
	if config.Type != "str_objectid" {
		t.Errorf("Type = %q, muốn str_objectid", config.Type)
	}
	if !config.Optional {
		t.Error("Optional phải là true")
	}
	if config.MapTo != "AssignedTo" {
		t.Errorf("MapTo = %q, muốn AssignedTo", config.MapTo)
	}
}

func TestParseTransformTag_FormatAndDefault(t *testing.T) {
	config, err := ParseTransformTag("str_time,format=2006-01-02,default=2026-01-01")
	if err != nil {
		t.Fatalf("ParseTransformTag: %v", err)
	}
	if config.Format != "2006-01-02" {
		t.Errorf("Format = %q, muốn 2006-01-02", config.Format)
	}
	if config.Default != "2026-01-01" {
		t.Errorf("Default = %q, muốn 2026-01-01", config.Default)
	}
}

func TestParseTransformTag_EmptyDefaultsToRFC3339(t *testing.T) {
	config, err := ParseTransformTag("")
	if err != nil {
		t.Fatalf("ParseTransformTag: %v", err)
	}
	if config.Format != time.RFC3339 {
		t.Errorf("Format = %q, muốn RFC3339 mặc định", config.Format)
	}
}

func TestTransformFieldValue_ObjectID(t *testing.T) {
	config := &TransformTagConfig{Type: "str_objectid"}
	got, err := TransformFieldValue("aaaaaaaaaaaaaaaaaaaaaaaa", config, reflect.TypeOf(primitive.ObjectID{}))
	if err != nil {
		t.Fatalf("TransformFieldValue: %v", err)
	}
	id, ok := got.(primitive.ObjectID)
	if !ok || id.Hex() != "aaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("got = %v, muốn ObjectID aaaaaaaaaaaaaaaaaaaaaaaa", got)
	}

	if _, err := TransformFieldValue("not-hex", config, reflect.TypeOf(primitive.ObjectID{})); err == nil {
		t.Error("hex sai định dạng phải trả về lỗi")
	}
}

func TestTransformFieldValue_RequiredEmpty(t *testing.T) {
	config := &TransformTagConfig{Type: "str_objectid", Required: true}
	if _, err := TransformFieldValue("", config, reflect.TypeOf(primitive.ObjectID{})); err == nil {
		t.Error("required với giá trị rỗng phải trả về lỗi")
	}
	if _, err := TransformFieldValue(nil, config, reflect.TypeOf(primitive.ObjectID{})); err == nil {
		t.Error("required với nil phải trả về lỗi")
	}
}

func TestTransformFieldValue_OptionalEmptySkipped(t *testing.T) {
	config := &TransformTagConfig{Type: "str_objectid", Optional: true}
	got, err := TransformFieldValue("", config, reflect.TypeOf(primitive.ObjectID{}))
	if err != nil {
		t.Fatalf("TransformFieldValue: %v", err)
	}
	if got != nil {
		t.Errorf("optional rỗng phải trả về nil, got %v", got)
	}
}

func TestTransformFieldValue_Time(t *testing.T) {
	config := &TransformTagConfig{Type: "str_time", Format: "2006-01-02"}
	got, err := TransformFieldValue("2026-08-31", config, reflect.TypeOf(int64(0)))
	if err != nil {
		t.Fatalf("TransformFieldValue: %v", err)
	}
	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got != want {
		t.Errorf("got = %v, muốn %d", got, want)
	}
}

func TestTransformFieldValue_Int64AndBool(t *testing.T) {
	got, err := TransformFieldValue("42", &TransformTagConfig{Type: "str_int64"}, reflect.TypeOf(int64(0)))
	if err != nil || got != int64(42) {
		t.Errorf("str_int64: got (%v, %v), muốn 42", got, err)
	}

	// JSON number decode thành float64
	got, err = TransformFieldValue(float64(7), &TransformTagConfig{Type: "str_int64"}, reflect.TypeOf(int64(0)))
	if err != nil || got != int64(7) {
		t.Errorf("str_int64 float64: got (%v, %v), muốn 7", got, err)
	}

	got, err = TransformFieldValue("true", &TransformTagConfig{Type: "str_bool"}, reflect.TypeOf(false))
	if err != nil || got != true {
		t.Errorf("str_bool: got (%v, %v), muốn true", got, err)
	}
}
