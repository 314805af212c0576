package crmsvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestLastContactBump_UsesMaxOperator(t *testing.T) {
	customerID := mustObjectID(t, "aaaaaaaaaaaaaaaaaaaaaaaa")
	date := int64(5 * dayMs)
	now := int64(6 * dayMs)

	filter, update := LastContactBump(customerID, date, now)

	if got := filter["_id"]; got != customerID {
		t.Errorf("filter[_id] = %v, muốn %v", got, customerID)
	}
	// Filter chỉ theo _id: document chưa có trường lastContact vẫn phải match
	if len(filter) != 1 {
		t.Errorf("filter chỉ được chứa _id, got %v", filter)
	}

	// $max đảm bảo ngày cũ hơn không ghi đè, còn trường thiếu thì được ghi
	maxOp, ok := update["$max"].(bson.M)
	if !ok {
		t.Fatalf("update thiếu $max, got %v", update)
	}
	if got := maxOp["lastContact"]; got != date {
		t.Errorf("$max[lastContact] = %v, muốn %v", got, date)
	}

	setOp, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("update thiếu $set, got %v", update)
	}
	if got := setOp["updatedAt"]; got != now {
		t.Errorf("$set[updatedAt] = %v, muốn %v", got, now)
	}
	if _, found := setOp["lastContact"]; found {
		t.Error("lastContact không được nằm trong $set, chỉ trong $max")
	}
}
