package services

import (
	"context"
	"testing"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
)

type stubTherapistMatcher struct {
	therapists []models.Therapist
}

func (s *stubTherapistMatcher) ListAll(_ context.Context) ([]models.Therapist, error) {
	return s.therapists, nil
}

func TestRecommendTherapistsRanksSpecialtyMatchFirst(t *testing.T) {
	service := NewMatchmakingService(&stubTherapistMatcher{
		therapists: []models.Therapist{
			buildTherapist("Adams", models.SpecialtyGeneral, models.TherapistStatusAvailable),
			buildTherapist("Baker", models.SpecialtyAnxietyDepression, models.TherapistStatusAvailable),
			buildTherapist("Clark", models.SpecialtyStressManagement, "busy"),
		},
	})

	ranked, err := service.RecommendTherapists(context.Background(), "anxiety", 3)
	if err != nil {
		t.Fatalf("RecommendTherapists: %v", err)
	}

	if got := len(ranked); got != 3 {
		t.Fatalf("expected 3 therapists, got %d", got)
	}
	if ranked[0].LastName != "Baker" || ranked[0].MatchScore != 80 {
		t.Fatalf("expected Baker with score 80 first, got %s with score %d", ranked[0].LastName, ranked[0].MatchScore)
	}
	if ranked[1].LastName != "Adams" || ranked[1].MatchScore != 50 {
		t.Fatalf("expected Adams with score 50 second, got %s with score %d", ranked[1].LastName, ranked[1].MatchScore)
	}
	if ranked[2].LastName != "Clark" || ranked[2].MatchScore != 0 {
		t.Fatalf("expected Clark with score 0 last, got %s with score %d", ranked[2].LastName, ranked[2].MatchScore)
	}
}

func TestRecommendTherapistsAppliesLimit(t *testing.T) {
	service := NewMatchmakingService(&stubTherapistMatcher{
		therapists: []models.Therapist{
			buildTherapist("Adams", models.SpecialtyStressManagement, models.TherapistStatusAvailable),
			buildTherapist("Baker", models.SpecialtyGeneral, models.TherapistStatusAvailable),
		},
	})

	ranked, err := service.RecommendTherapists(context.Background(), "burnout", 1)
	if err != nil {
		t.Fatalf("RecommendTherapists: %v", err)
	}
	if got := len(ranked); got != 1 {
		t.Fatalf("expected 1 therapist, got %d", got)
	}
	if ranked[0].LastName != "Adams" {
		t.Fatalf("expected Adams first, got %s", ranked[0].LastName)
	}
}

func TestRecommendTherapistsBreaksTiesByLastName(t *testing.T) {
	service := NewMatchmakingService(&stubTherapistMatcher{
		therapists: []models.Therapist{
			buildTherapist("Young", models.SpecialtyGeneral, models.TherapistStatusAvailable),
			buildTherapist("Abbott", models.SpecialtyGeneral, models.TherapistStatusAvailable),
		},
	})

	ranked, err := service.RecommendTherapists(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("RecommendTherapists: %v", err)
	}
	if ranked[0].LastName != "Abbott" || ranked[1].LastName != "Young" {
		t.Fatalf("expected alphabetical tie-break, got %s then %s", ranked[0].LastName, ranked[1].LastName)
	}
}

func TestConcernAliasesFoldOntoSpecialties(t *testing.T) {
	cases := map[string]string{
		"Anxiety":           models.SpecialtyAnxietyDepression,
		"couples":           models.SpecialtyRelationshipCounseling,
		"work":              models.SpecialtyStressManagement,
		"stress-management": models.SpecialtyStressManagement,
		"insomnia":          models.SpecialtyGeneral,
		"":                  "",
	}

	for concern, want := range cases {
		if got := specialtyForConcern(concern); got != want {
			t.Fatalf("specialtyForConcern(%q) = %q, want %q", concern, got, want)
		}
	}
}

func buildTherapist(lastName string, specialty string, status string) models.Therapist {
	return models.Therapist{
		FirstName: "Jordan",
		LastName:  lastName,
		Specialty: specialty,
		Status:    status,
	}
}
