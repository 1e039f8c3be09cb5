package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationDataMarshalsVariantShaped(t *testing.T) {
	raw, err := bson.Marshal(NotificationData{})
	if err != nil {
		t.Fatalf("marshal empty payload: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("empty payload should marshal to an empty document, got %v", doc)
	}

	researchID := primitive.NewObjectID()
	raw, err = bson.Marshal(NotificationData{ResearchID: &researchID, Version: 2})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc) != 2 {
		t.Errorf("expected only the set fields, got %v", doc)
	}
	if doc["research_id"] != researchID {
		t.Errorf("expected research_id %s, got %v", researchID.Hex(), doc["research_id"])
	}
}
