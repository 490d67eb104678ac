// Package audit - subscriber ghi lại mọi thay đổi dữ liệu vào collection
// audit_logs, ăn theo event bus OnDataChanged của tầng base service.
package audit

import (
	"context"
	"time"

	"estate_crm/internal/api/events"
	"estate_crm/internal/global"
	"estate_crm/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog một bản ghi thay đổi dữ liệu
type AuditLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Collection string             `json:"collection" bson:"collection" index:"single"`
	Operation  string             `json:"operation" bson:"operation"`
	Document   interface{}        `json:"document" bson:"document"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt" index:"ttl:7776000"`
}

// RegisterSubscriber đăng ký handler ghi audit log cho mọi thay đổi dữ liệu.
// Ghi trực tiếp vào collection (không qua base service) để insert audit log
// không tự phát thêm event - tránh vòng lặp vô hạn.
func RegisterSubscriber() {
	events.OnDataChanged(func(ctx context.Context, event events.DataChangeEvent) {
		// Không audit chính collection audit_logs
		if event.CollectionName == global.MongoDB_ColNames.AuditLogs {
			return
		}

		collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AuditLogs)
		if !exist {
			return
		}

		entry := AuditLog{
			Collection: event.CollectionName,
			Operation:  event.Operation,
			Document:   event.Document,
			CreatedAt:  time.Now().UnixMilli(),
		}

		insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := collection.InsertOne(insertCtx, entry); err != nil {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"collection": event.CollectionName,
				"operation":  event.Operation,
				"error":      err.Error(),
			}).Error("Lỗi ghi audit log")
		}
	})
}
