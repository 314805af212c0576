package events

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sampleDoc struct {
	ID        primitive.ObjectID
	UpdatedAt int64
}

func TestEmitDataChanged_DeliversToHandler(t *testing.T) {
	received := make(chan DataChangeEvent, 1)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		received <- e
	})

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "customers",
		Operation:      OpInsert,
		Document:       sampleDoc{UpdatedAt: 42},
	})

	select {
	case e := <-received:
		if e.CollectionName != "customers" || e.Operation != OpInsert {
			t.Errorf("event = %+v, muốn collection customers / op insert", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler không nhận được event sau 2 giây")
	}
}

func TestEmitDataChanged_PanicDoesNotBlockOtherHandlers(t *testing.T) {
	received := make(chan struct{}, 1)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.Operation == OpDelete {
			panic("panic giả lập")
		}
	})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.Operation == OpDelete {
			received <- struct{}{}
		}
	})

	EmitDataChanged(context.Background(), DataChangeEvent{Operation: OpDelete})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("handler thứ hai không chạy khi handler khác panic")
	}
}

func TestGetIDHex(t *testing.T) {
	id := primitive.NewObjectID()
	if got := GetIDHex(sampleDoc{ID: id}); got != id.Hex() {
		t.Errorf("GetIDHex = %q, muốn %q", got, id.Hex())
	}
	if got := GetIDHex(&sampleDoc{ID: id}); got != id.Hex() {
		t.Errorf("GetIDHex(con trỏ) = %q, muốn %q", got, id.Hex())
	}
	if got := GetIDHex(sampleDoc{}); got != "" {
		t.Errorf("ID zero phải trả về chuỗi rỗng, got %q", got)
	}
	if got := GetIDHex(nil); got != "" {
		t.Errorf("document nil phải trả về chuỗi rỗng, got %q", got)
	}
}

func TestGetInt64Field(t *testing.T) {
	doc := sampleDoc{UpdatedAt: 1234}
	if got := GetInt64Field(doc, "UpdatedAt"); got != 1234 {
		t.Errorf("GetInt64Field = %d, muốn 1234", got)
	}
	if got := GetInt64Field(doc, "NotExist"); got != 0 {
		t.Errorf("field không tồn tại phải trả về 0, got %d", got)
	}
	if got := GetInt64Field(nil, "UpdatedAt"); got != 0 {
		t.Errorf("document nil phải trả về 0, got %d", got)
	}
}
