package services

import (
	"context"
	"sort"
	"strings"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/models"
)

type TherapistMatcher interface {
	ListAll(ctx context.Context) ([]models.Therapist, error)
}

type MatchmakingService struct {
	therapistRepo TherapistMatcher
}

func NewMatchmakingService(therapistRepo TherapistMatcher) *MatchmakingService {
	return &MatchmakingService{therapistRepo: therapistRepo}
}

// RecommendTherapists ranks the directory against a patient's stated
// concern. Free-form concerns are folded onto the specialty enum; available
// therapists outrank unavailable ones at equal specialty fit.
func (s *MatchmakingService) RecommendTherapists(
	ctx context.Context,
	concern string,
	limit int,
) ([]models.TherapistWithScore, error) {
	therapists, err := s.therapistRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	specialty := specialtyForConcern(concern)

	ranked := make([]models.TherapistWithScore, 0, len(therapists))
	for _, therapist := range therapists {
		ranked = append(ranked, models.TherapistWithScore{
			Therapist:  therapist,
			MatchScore: scoreTherapist(&therapist, specialty),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore == ranked[j].MatchScore {
			return ranked[i].LastName < ranked[j].LastName
		}
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func scoreTherapist(therapist *models.Therapist, specialty string) int {
	score := 0

	switch {
	case specialty != "" && therapist.Specialty == specialty:
		score += 50
	case therapist.Specialty == models.SpecialtyGeneral:
		// Generalists are a workable fallback for any concern.
		score += 20
	}

	if therapist.Status == models.TherapistStatusAvailable {
		score += 30
	}
	if therapist.ImageURL != nil && *therapist.ImageURL != "" {
		score += 5
	}

	return score
}

func specialtyForConcern(concern string) string {
	switch normalize(concern) {
	case "anxiety", "depression", "panic", "anxiety_depression", "mood":
		return models.SpecialtyAnxietyDepression
	case "relationship", "relationships", "couples", "marriage", "family",
		"relationship_counseling":
		return models.SpecialtyRelationshipCounseling
	case "stress", "burnout", "work", "stress_management":
		return models.SpecialtyStressManagement
	case "":
		return ""
	default:
		return models.SpecialtyGeneral
	}
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}
