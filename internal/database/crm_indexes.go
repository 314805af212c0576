// Package database - Index bổ sung cho CRM (text search nhiều field, compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"nexus_crm/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateCrmAdditionalIndexes tạo các index bổ sung cho CRM.
// Gọi sau CreateIndexes cho từng collection.
func CreateCrmAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// customers: text index nhiều field cho search (mỗi collection chỉ có 1 text index)
	customers := db.Collection(global.MongoDB_ColNames.Customers)
	if _, err := customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "email", Value: "text"},
			{Key: "company", Value: "text"},
			{Key: "phone", Value: "text"},
			{Key: "notes", Value: "text"},
		},
		Options: options.Index().SetName("customer_search_text"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// customers: (status, lastContact) — quét lifecycle định kỳ
	if _, err := customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "lastContact", Value: 1},
		},
		Options: options.Index().SetName("customer_status_lastcontact"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// interactions: (customerId, date desc) — timeline theo khách hàng
	interactions := db.Collection(global.MongoDB_ColNames.Interactions)
	if _, err := interactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerId", Value: 1},
			{Key: "date", Value: -1},
		},
		Options: options.Index().SetName("interaction_customer_date"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// tasks: (assignedTo, status) — đếm tải khi phân công
	tasks := db.Collection(global.MongoDB_ColNames.Tasks)
	if _, err := tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "assignedTo", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("task_assignee_status").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// tasks: (status, updatedAt) — quét archive task hoàn thành lâu
	if _, err := tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "updatedAt", Value: 1},
		},
		Options: options.Index().SetName("task_status_updated"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
