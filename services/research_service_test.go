package services

import (
	"errors"
	"researchhub/models"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func chainDoc(id primitive.ObjectID, parent *primitive.ObjectID, version int, uploaded time.Time) models.Research {
	return models.Research{
		ID:          id,
		ParentID:    parent,
		Version:     version,
		DriveFileID: "file-" + id.Hex(),
		UploadDate:  uploaded,
	}
}

func TestLatestPerChainSingleChain(t *testing.T) {
	root := primitive.NewObjectID()
	v2 := primitive.NewObjectID()
	v3 := primitive.NewObjectID()
	now := time.Now()

	docs := []models.Research{
		chainDoc(root, nil, 1, now),
		chainDoc(v2, &root, 2, now.Add(time.Hour)),
		chainDoc(v3, &root, 3, now.Add(2*time.Hour)),
	}

	latest := LatestPerChain(docs)
	if len(latest) != 1 {
		t.Fatalf("expected 1 document, got %d", len(latest))
	}
	if latest[0].ID != v3 {
		t.Errorf("expected latest version id %s, got %s", v3.Hex(), latest[0].ID.Hex())
	}
	if latest[0].Version != 3 {
		t.Errorf("expected version 3, got %d", latest[0].Version)
	}
}

func TestLatestPerChainMultipleChains(t *testing.T) {
	rootA := primitive.NewObjectID()
	rootB := primitive.NewObjectID()
	a2 := primitive.NewObjectID()
	now := time.Now()

	docs := []models.Research{
		chainDoc(rootA, nil, 1, now),
		chainDoc(a2, &rootA, 2, now.Add(time.Hour)),
		chainDoc(rootB, nil, 1, now.Add(2*time.Hour)),
	}

	latest := LatestPerChain(docs)
	if len(latest) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(latest))
	}

	byRoot := make(map[primitive.ObjectID]models.Research)
	for _, doc := range latest {
		byRoot[doc.ChainRoot()] = doc
	}

	if got := byRoot[rootA]; got.ID != a2 {
		t.Errorf("chain A: expected %s, got %s", a2.Hex(), got.ID.Hex())
	}
	if got := byRoot[rootB]; got.ID != rootB {
		t.Errorf("chain B: expected %s, got %s", rootB.Hex(), got.ID.Hex())
	}
}

func TestLatestPerChainOrderedByUploadDate(t *testing.T) {
	older := primitive.NewObjectID()
	newer := primitive.NewObjectID()
	now := time.Now()

	docs := []models.Research{
		chainDoc(older, nil, 1, now.Add(-time.Hour)),
		chainDoc(newer, nil, 1, now),
	}

	latest := LatestPerChain(docs)
	if len(latest) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(latest))
	}
	if latest[0].ID != newer {
		t.Errorf("expected newest upload first, got %s", latest[0].ID.Hex())
	}
}

func TestLatestPerChainEmpty(t *testing.T) {
	if got := LatestPerChain(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d documents", len(got))
	}
}

func TestChainRootResolution(t *testing.T) {
	root := primitive.NewObjectID()
	child := primitive.NewObjectID()

	original := models.Research{ID: root}
	if got := original.ChainRoot(); got != root {
		t.Errorf("original should be its own root, got %s", got.Hex())
	}

	resubmission := models.Research{ID: child, ParentID: &root}
	if got := resubmission.ChainRoot(); got != root {
		t.Errorf("resubmission root should be %s, got %s", root.Hex(), got.Hex())
	}
}

func TestCanResubmit(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.StatusPending, false},
		{models.StatusAccepted, false},
		{models.StatusRejected, true},
		{models.StatusRevision, true},
	}

	for _, tt := range tests {
		if got := models.CanResubmit(tt.status); got != tt.want {
			t.Errorf("CanResubmit(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidateNewVersionChecksWholeChain(t *testing.T) {
	root := primitive.NewObjectID()
	v2 := primitive.NewObjectID()
	v3 := primitive.NewObjectID()
	now := time.Now()

	chain := []models.Research{
		chainDoc(root, nil, 1, now),
		chainDoc(v2, &root, 2, now.Add(time.Hour)),
		chainDoc(v3, &root, 3, now.Add(2*time.Hour)),
	}

	// Resubmitting from the stale version-1 document must not be able to
	// introduce a second version 2 into the chain.
	err := validateNewVersion(chain, 2)
	if err == nil {
		t.Fatal("expected duplicate version to be rejected")
	}
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}

	if err := validateNewVersion(chain, 3); err == nil {
		t.Error("expected version equal to chain max to be rejected")
	}
	if err := validateNewVersion(chain, 4); err != nil {
		t.Errorf("version above chain max should pass: %v", err)
	}
}

func TestStatusNotificationRevisionCarriesNote(t *testing.T) {
	research := models.Research{
		ID:      primitive.NewObjectID(),
		Title:   "Graph Mining",
		Version: 2,
	}

	message, data := statusNotification(&research, "Dr. Cruz", models.StatusRevision, "fix intro")

	if data.RevisionNote != "fix intro" {
		t.Errorf("expected revision note %q, got %q", "fix intro", data.RevisionNote)
	}
	if data.ResearchID == nil || *data.ResearchID != research.ID {
		t.Error("expected payload to reference the research document")
	}
	if message == "" {
		t.Error("expected non-empty message")
	}
}

func TestStatusNotificationAcceptedCreditsAdviser(t *testing.T) {
	research := models.Research{ID: primitive.NewObjectID(), Title: "Graph Mining", Version: 1}

	message, data := statusNotification(&research, "Dr. Cruz", models.StatusAccepted, "")

	if data.RevisionNote != "" {
		t.Errorf("accepted payload should carry no revision note, got %q", data.RevisionNote)
	}
	if want := `"Graph Mining" was accepted by Dr. Cruz`; message != want {
		t.Errorf("expected message %q, got %q", want, message)
	}
}

func TestTeamRecipientsIncludesLeaderAndMembers(t *testing.T) {
	leader := primitive.NewObjectID()
	memberA := primitive.NewObjectID()
	memberB := primitive.NewObjectID()

	research := models.Research{
		MongoID:     leader,
		TeamMembers: []primitive.ObjectID{memberA, memberB},
	}

	recipients := teamRecipients(&research)
	if len(recipients) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(recipients))
	}
	for _, r := range recipients {
		if r.Model != models.RecipientStudent {
			t.Errorf("expected student recipients, got %q", r.Model)
		}
	}
	if recipients[0].ID != leader {
		t.Errorf("expected leader first, got %s", recipients[0].ID.Hex())
	}
}
