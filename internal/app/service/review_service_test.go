package service

import (
	"context"
	"errors"
	"testing"

	"github.com/reviewboost/reviewboost-backend/config"
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAI lets tests drive the provider's behavior
type stubAI struct {
	templates []GeneratedTemplate
	err       error
	fallback  AIService
}

func (s *stubAI) GenerateTemplates(_ context.Context, _ *model.Business, _ int) ([]GeneratedTemplate, error) {
	return s.templates, s.err
}

func (s *stubAI) FallbackTemplates(business *model.Business, count int) []GeneratedTemplate {
	return s.fallback.FallbackTemplates(business, count)
}

func setupReviewServiceTest(t *testing.T, ai AIService) (*conflictTestEnv, ReviewService) {
	env := setupConflictTest(t)

	templateRepo := repository.NewTemplateRepository(env.db)
	activity := NewActivityService(env.activityRepo, nil)
	svc := NewReviewService(env.db, env.businessRepo, templateRepo, ai, activity)
	return env, svc
}

func TestReviewService_GenerateTemplates_AISuccess(t *testing.T) {
	ai := &stubAI{
		templates: []GeneratedTemplate{
			{Content: "Great coffee, friendly staff.", Sentiment: model.SentimentPositive, Category: "service"},
			{Content: "Solid spot, would return.", Sentiment: model.SentimentNeutral, Category: "general"},
		},
	}
	env, svc := setupReviewServiceTest(t, ai)
	actor := loadActor(t, env, env.owner1.ID)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	templates, err := svc.GenerateTemplates(context.Background(), actor, business.ID, 2)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, model.SourceAI, templates[0].Source)
	assert.Equal(t, business.ID, templates[0].BusinessID)

	// batch counter on the business advanced
	after := env.reload(t, business.ID)
	assert.Equal(t, 1, after.GenerationCount)

	batches, err := env.activityRepo.CountByAction(model.ActionTemplatesGenerated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), batches)
}

func TestReviewService_GenerateTemplates_FallbackOnAIFailure(t *testing.T) {
	ai := &stubAI{
		err:      errors.New("provider timeout"),
		fallback: NewAIService(&config.OpenAIConfig{}),
	}
	env, svc := setupReviewServiceTest(t, ai)
	actor := loadActor(t, env, env.owner1.ID)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	templates, err := svc.GenerateTemplates(context.Background(), actor, business.ID, 3)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	for _, tmpl := range templates {
		assert.Equal(t, model.SourceFallback, tmpl.Source)
		assert.Contains(t, tmpl.Content, "cafe")
	}
}

func TestReviewService_GenerateTemplates_MonthlyLimit(t *testing.T) {
	ai := &stubAI{templates: []GeneratedTemplate{{Content: "x", Sentiment: model.SentimentPositive}}}
	env, svc := setupReviewServiceTest(t, ai)
	actor := loadActor(t, env, env.owner1.ID)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	// the free plan allows 3 batches per month
	for i := 0; i < 3; i++ {
		_, err := svc.GenerateTemplates(context.Background(), actor, business.ID, 1)
		require.NoError(t, err)
	}

	_, err := svc.GenerateTemplates(context.Background(), actor, business.ID, 1)
	assert.ErrorIs(t, err, ErrTemplateLimitReached)
}

func TestReviewService_GenerateTemplates_AdminBypassesLimit(t *testing.T) {
	ai := &stubAI{templates: []GeneratedTemplate{{Content: "x", Sentiment: model.SentimentPositive}}}
	env, svc := setupReviewServiceTest(t, ai)
	operator := loadActor(t, env, env.operator.ID)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	for i := 0; i < 5; i++ {
		_, err := svc.GenerateTemplates(context.Background(), operator, business.ID, 1)
		require.NoError(t, err)
	}
}

func TestReviewService_GenerateTemplates_InactiveBusiness(t *testing.T) {
	ai := &stubAI{}
	env, svc := setupReviewServiceTest(t, ai)
	actor := loadActor(t, env, env.owner1.ID)

	parked := env.createBusiness(t, env.owner1, "parked", urlPlaceA, model.StatusPendingConnect)

	_, err := svc.GenerateTemplates(context.Background(), actor, parked.ID, 1)
	assert.ErrorIs(t, err, ErrBusinessNotActive)
}

func TestReviewService_GenerateTemplates_AccessDenied(t *testing.T) {
	ai := &stubAI{}
	env, svc := setupReviewServiceTest(t, ai)
	actor := loadActor(t, env, env.owner2.ID)

	theirs := env.createBusiness(t, env.owner1, "theirs", urlPlaceA, model.StatusActive)

	_, err := svc.GenerateTemplates(context.Background(), actor, theirs.ID, 1)
	assert.ErrorIs(t, err, ErrBusinessAccessDenied)
}

func TestReviewService_ListTemplates(t *testing.T) {
	ai := &stubAI{templates: []GeneratedTemplate{
		{Content: "a", Sentiment: model.SentimentPositive},
		{Content: "b", Sentiment: model.SentimentNeutral},
	}}
	env, svc := setupReviewServiceTest(t, ai)
	actor := loadActor(t, env, env.owner1.ID)
	business := env.createBusiness(t, env.owner1, "cafe", urlPlaceA, model.StatusActive)

	_, err := svc.GenerateTemplates(context.Background(), actor, business.ID, 2)
	require.NoError(t, err)

	templates, err := svc.ListTemplates(actor, business.ID)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}
