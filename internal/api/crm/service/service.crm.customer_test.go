package crmsvc

import (
	"testing"

	crmdto "nexus_crm/internal/api/crm/dto"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCustomerFilter_Basic(t *testing.T) {
	filter, err := BuildCustomerFilter(&crmdto.CustomerFilter{
		Status:     "lead",
		AssignedTo: "aaaaaaaaaaaaaaaaaaaaaaaa",
		Tags:       []string{"vip", "enterprise"},
	})
	if err != nil {
		t.Fatalf("BuildCustomerFilter: %v", err)
	}

	if filter["status"] != "lead" {
		t.Errorf("status = %v, muốn lead", filter["status"])
	}
	assignedTo, ok := filter["assignedTo"].(primitive.ObjectID)
	if !ok || assignedTo.Hex() != "aaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("assignedTo = %v, muốn ObjectID", filter["assignedTo"])
	}
	tags, ok := filter["tags"].(bson.M)
	if !ok {
		t.Fatalf("tags không phải bson.M: %v", filter["tags"])
	}
	in, ok := tags["$in"].([]string)
	if !ok || len(in) != 2 {
		t.Errorf("tags $in = %v, muốn 2 phần tử", tags["$in"])
	}
}

func TestBuildCustomerFilter_InvalidAssignedTo(t *testing.T) {
	if _, err := BuildCustomerFilter(&crmdto.CustomerFilter{AssignedTo: "xyz"}); err == nil {
		t.Error("assignedTo sai định dạng phải trả về lỗi")
	}
}

func TestBuildCustomerFilter_DateRange(t *testing.T) {
	filter, err := BuildCustomerFilter(&crmdto.CustomerFilter{DateFrom: 1000, DateTo: 2000})
	if err != nil {
		t.Fatalf("BuildCustomerFilter: %v", err)
	}
	createdAt, ok := filter["createdAt"].(bson.M)
	if !ok || createdAt["$gte"] != int64(1000) || createdAt["$lte"] != int64(2000) {
		t.Errorf("createdAt = %v, muốn range [1000, 2000]", filter["createdAt"])
	}
}

func TestApplySearch_GenericSearchesAllFields(t *testing.T) {
	filter := bson.M{}
	applySearch(filter, "acme")

	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 4 {
		t.Fatalf("$or = %v, muốn 4 điều kiện (name, email, company, phone)", filter["$or"])
	}
	re, ok := or[0]["name"].(primitive.Regex)
	if !ok || re.Pattern != "acme" || re.Options != "i" {
		t.Errorf("regex name = %v, muốn acme không phân biệt hoa thường", or[0]["name"])
	}
}

func TestApplySearch_FieldMiniSyntax(t *testing.T) {
	filter := bson.M{}
	applySearch(filter, "email:john@example.com")

	re, ok := filter["email"].(primitive.Regex)
	if !ok {
		t.Fatalf("email không phải regex: %v", filter["email"])
	}
	if re.Pattern != `john@example\.com` {
		t.Errorf("pattern = %q, muốn dấu chấm được escape", re.Pattern)
	}
	if _, ok := filter["$or"]; ok {
		t.Error("mini-syntax không được kèm $or")
	}
}

func TestApplySearch_FieldNameTrimmedAndLowered(t *testing.T) {
	filter := bson.M{}
	applySearch(filter, "Name: Nguyen Van A")

	re, ok := filter["name"].(primitive.Regex)
	if !ok || re.Pattern != "Nguyen Van A" {
		t.Errorf("name = %v, muốn regex 'Nguyen Van A'", filter["name"])
	}
}

func TestApplySearch_UnknownFieldFallsBack(t *testing.T) {
	filter := bson.M{}
	applySearch(filter, "address:hanoi")

	// Field không hỗ trợ: tìm cả chuỗi trên 4 field chung
	if _, ok := filter["address"]; ok {
		t.Error("field không hỗ trợ không được lọt vào filter")
	}
	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 4 {
		t.Fatalf("$or = %v, muốn fallback 4 điều kiện", filter["$or"])
	}
}

func TestApplySearch_RegexSpecialCharsEscaped(t *testing.T) {
	filter := bson.M{}
	applySearch(filter, "a+b(c)")

	or := filter["$or"].([]bson.M)
	re := or[0]["name"].(primitive.Regex)
	if re.Pattern != `a\+b\(c\)` {
		t.Errorf("pattern = %q, ký tự regex phải được escape", re.Pattern)
	}
}

func TestDedupeTags(t *testing.T) {
	got := DedupeTags([]string{"vip", "new", "vip", "hot", "new"})
	want := []string{"vip", "new", "hot"}
	if len(got) != len(want) {
		t.Fatalf("DedupeTags = %v, muốn %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DedupeTags[%d] = %q, muốn %q (giữ thứ tự xuất hiện đầu tiên)", i, got[i], want[i])
		}
	}
}

func TestDedupeTags_ShortInputUnchanged(t *testing.T) {
	if got := DedupeTags(nil); got != nil {
		t.Errorf("DedupeTags(nil) = %v, muốn nil", got)
	}
	single := []string{"vip"}
	if got := DedupeTags(single); len(got) != 1 || got[0] != "vip" {
		t.Errorf("DedupeTags 1 phần tử = %v, muốn giữ nguyên", got)
	}
}
