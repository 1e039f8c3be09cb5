package services

import (
	"errors"
	"researchhub/models"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDedupeMembersDropsLeaderAndRepeats(t *testing.T) {
	leader := primitive.NewObjectID()
	memberA := primitive.NewObjectID()
	memberB := primitive.NewObjectID()

	got := dedupeMembers(leader, []primitive.ObjectID{memberA, leader, memberB, memberA})

	if len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}
	if got[0] != memberA || got[1] != memberB {
		t.Errorf("expected [%s %s], got %v", memberA.Hex(), memberB.Hex(), got)
	}
}

func TestDedupeMembersEmpty(t *testing.T) {
	leader := primitive.NewObjectID()

	if got := dedupeMembers(leader, nil); len(got) != 0 {
		t.Errorf("expected no members, got %d", len(got))
	}
	if got := dedupeMembers(leader, []primitive.ObjectID{leader}); len(got) != 0 {
		t.Errorf("leader-only list should dedupe to empty, got %d", len(got))
	}
}

func TestEnsureFreeAgents(t *testing.T) {
	instructorID := primitive.NewObjectID()
	free := models.Student{Name: "Ana"}
	managed := models.Student{Name: "Ben", ManagedBy: &instructorID}
	linked := models.Student{Name: "Cruz", ProjectMembers: []primitive.ObjectID{primitive.NewObjectID()}}

	if err := ensureFreeAgents([]models.Student{free}); err != nil {
		t.Errorf("free student should pass: %v", err)
	}
	if err := ensureFreeAgents(nil); err != nil {
		t.Errorf("empty list should pass: %v", err)
	}

	// A student who joined another team while the request sat in the
	// instructor's inbox must block approval.
	err := ensureFreeAgents([]models.Student{free, managed})
	if err == nil {
		t.Fatal("expected student with a supervisor to block approval")
	}
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}

	if err := ensureFreeAgents([]models.Student{linked}); err == nil {
		t.Error("expected student with project members to block approval")
	}
}

func TestAddMemberUpdatesAreSymmetric(t *testing.T) {
	leaderID := primitive.NewObjectID()
	instructorID := primitive.NewObjectID()
	newMemberID := primitive.NewObjectID()
	leader := models.Student{
		ID:           leaderID,
		ManagedBy:    &instructorID,
		InstructorID: &instructorID,
	}
	existing := []primitive.ObjectID{leaderID}
	now := time.Now()

	currentUpdate, newMemberUpdate := addMemberUpdates(&leader, existing, newMemberID, now)

	// Current members gain the newcomer.
	addToSet := currentUpdate["$addToSet"].(bson.M)
	if addToSet["project_members"] != newMemberID {
		t.Errorf("current members should gain %s, got %v", newMemberID.Hex(), addToSet["project_members"])
	}

	// The newcomer gains every current member and the supervision links.
	set := newMemberUpdate["$set"].(bson.M)
	members := set["project_members"].([]primitive.ObjectID)
	found := false
	for _, id := range members {
		if id == leaderID {
			found = true
		}
	}
	if !found {
		t.Error("new member should reference the leader")
	}
	if set["managed_by"] != leader.ManagedBy {
		t.Error("new member should inherit the supervising instructor")
	}
	if set["instructor_id"] != leader.InstructorID {
		t.Error("new member should inherit the instructor link")
	}
}

func TestRemoveMemberUpdatesClearBothSides(t *testing.T) {
	memberID := primitive.NewObjectID()
	now := time.Now()

	remainingUpdate, removedUpdate := removeMemberUpdates(memberID, now)

	// Everyone remaining drops the reference.
	pull := remainingUpdate["$pull"].(bson.M)
	if pull["project_members"] != memberID {
		t.Errorf("remaining members should drop %s, got %v", memberID.Hex(), pull["project_members"])
	}

	// The removed student loses their member list and supervision links.
	set := removedUpdate["$set"].(bson.M)
	if members := set["project_members"].([]primitive.ObjectID); len(members) != 0 {
		t.Errorf("removed member should keep no references, got %v", members)
	}
	unset := removedUpdate["$unset"].(bson.M)
	if _, ok := unset["managed_by"]; !ok {
		t.Error("removed member should lose managed_by")
	}
	if _, ok := unset["instructor_id"]; !ok {
		t.Error("removed member should lose instructor_id")
	}
}
