package video

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"viducate/internal/domain"
	"viducate/internal/providers/did"
)

type fakeVideoRepo struct {
	videos  map[int64]*domain.VideoRequest
	nextID  int64
	updates int
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[int64]*domain.VideoRequest{}, nextID: 1}
}

func (f *fakeVideoRepo) Create(_ context.Context, v *domain.VideoRequest) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *v
	stored.ID = id
	f.videos[id] = &stored
	return id, nil
}

func (f *fakeVideoRepo) GetByID(_ context.Context, id int64) (*domain.VideoRequest, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideoRepo) Update(_ context.Context, id int64, up domain.VideoUpdate) (*domain.VideoRequest, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.updates++
	if up.Status != nil {
		v.Status = *up.Status
	}
	if up.TalkID != nil {
		v.TalkID = *up.TalkID
	}
	if up.VideoURL != nil {
		v.VideoURL = *up.VideoURL
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideoRepo) ListByAuthor(_ context.Context, authorID string) ([]domain.VideoRequest, error) {
	var out []domain.VideoRequest
	for _, v := range f.videos {
		if v.AuthorID == authorID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideoRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoRepo) CountByAuthorAndStatus(_ context.Context, authorID string, status domain.VideoStatus) (int, error) {
	n := 0
	for _, v := range f.videos {
		if v.AuthorID == authorID && v.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeTalks struct {
	createErr   error
	createTalk  did.Talk
	getErr      error
	getTalk     did.Talk
	createCalls int
	getCalls    int
	lastRequest did.TalkRequest
}

func (f *fakeTalks) CreateTalk(_ context.Context, req did.TalkRequest) (*did.Talk, error) {
	f.createCalls++
	f.lastRequest = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	t := f.createTalk
	return &t, nil
}

func (f *fakeTalks) GetTalk(_ context.Context, _ string) (*did.Talk, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	t := f.getTalk
	return &t, nil
}

type recordedReward struct {
	completions int
}

func (r *recordedReward) OnVideoCompleted(_ context.Context, _ string, _ int64) {
	r.completions++
}

func newTestService(repo *fakeVideoRepo, talks *fakeTalks, rewards Rewards) *Service {
	return NewService(repo, talks, rewards, zerolog.Nop())
}

func TestGenerateSubmitsTalkAndStoresID(t *testing.T) {
	repo := newFakeVideoRepo()
	talks := &fakeTalks{createTalk: did.Talk{ID: "tlk_1", Status: "created"}}
	svc := newTestService(repo, talks, nil)

	res, err := svc.Generate(context.Background(), GenerateInput{
		AuthorID: "u1",
		Title:    "Photosynthesis",
		Content:  "Plants convert light into energy.",
		Language: "es",
		AvatarID: "anna",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Status != domain.VideoStatusPending {
		t.Errorf("status = %s, want pending", res.Status)
	}
	if res.TalkID != "tlk_1" {
		t.Errorf("talk id = %q, want tlk_1", res.TalkID)
	}

	stored, _ := repo.GetByID(context.Background(), res.VideoID)
	if stored.TalkID != "tlk_1" {
		t.Errorf("stored talk id = %q, want tlk_1", stored.TalkID)
	}
	if stored.Status != domain.VideoStatusPending {
		t.Errorf("stored status = %s, want pending", stored.Status)
	}
	if talks.lastRequest.Script.Provider.VoiceID != "es-ES-ElviraNeural" {
		t.Errorf("voice = %q, want es-ES-ElviraNeural", talks.lastRequest.Script.Provider.VoiceID)
	}
	if talks.lastRequest.PresenterID != "emma" {
		t.Errorf("presenter = %q, want emma", talks.lastRequest.PresenterID)
	}
}

func TestGenerateRejectsEmptyContent(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := newTestService(repo, &fakeTalks{}, nil)

	_, err := svc.Generate(context.Background(), GenerateInput{AuthorID: "u1", Content: "   "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(repo.videos) != 0 {
		t.Errorf("record created for invalid input")
	}
}

func TestGenerateSubmissionFailureMarksFailedWithoutTalkID(t *testing.T) {
	repo := newFakeVideoRepo()
	talks := &fakeTalks{createErr: did.ErrRequestFailed}
	svc := newTestService(repo, talks, nil)

	_, err := svc.Generate(context.Background(), GenerateInput{AuthorID: "u1", Content: "hello"})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}

	stored, getErr := repo.GetByID(context.Background(), 1)
	if getErr != nil {
		t.Fatalf("record missing after failed submission: %v", getErr)
	}
	if stored.Status != domain.VideoStatusFailed {
		t.Errorf("status = %s, want failed", stored.Status)
	}
	if stored.TalkID != "" {
		t.Errorf("talk id stored on failed submission: %q", stored.TalkID)
	}
}

func TestGenerateSubmissionTimeout(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := newTestService(repo, &fakeTalks{createErr: did.ErrTimeout}, nil)

	_, err := svc.Generate(context.Background(), GenerateInput{AuthorID: "u1", Content: "hello"})
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("err = %v, want ErrProviderTimeout", err)
	}
}

func TestReconcileCompletedShortCircuits(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{
		AuthorID: "u1",
		Status:   domain.VideoStatusCompleted,
		TalkID:   "tlk_1",
		VideoURL: "https://cdn/x.mp4",
	})
	talks := &fakeTalks{}
	svc := newTestService(repo, talks, nil)

	res, err := svc.Reconcile(context.Background(), "u1", id, "tlk_1")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Status != domain.VideoStatusCompleted || res.VideoURL != "https://cdn/x.mp4" {
		t.Errorf("got %+v", res)
	}
	if talks.getCalls != 0 {
		t.Errorf("external check made on completed record: %d calls", talks.getCalls)
	}
}

func TestReconcilePersistsTransition(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{
		AuthorID: "u1",
		Status:   domain.VideoStatusPending,
		TalkID:   "tlk_1",
	})
	rewards := &recordedReward{}
	talks := &fakeTalks{getTalk: did.Talk{ID: "tlk_1", Status: "done", ResultURL: "https://cdn/v.mp4"}}
	svc := newTestService(repo, talks, rewards)

	res, err := svc.Reconcile(context.Background(), "u1", id, "tlk_1")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Status != domain.VideoStatusCompleted {
		t.Errorf("status = %s, want completed", res.Status)
	}
	if res.VideoURL != "https://cdn/v.mp4" {
		t.Errorf("video url = %q", res.VideoURL)
	}

	stored, _ := repo.GetByID(context.Background(), id)
	if stored.Status != domain.VideoStatusCompleted || stored.VideoURL != "https://cdn/v.mp4" {
		t.Errorf("stored %+v", stored)
	}
	if rewards.completions != 1 {
		t.Errorf("completions = %d, want 1", rewards.completions)
	}
}

func TestReconcileUnknownStatusKeepsPrior(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{
		AuthorID: "u1",
		Status:   domain.VideoStatusProcessing,
		TalkID:   "tlk_1",
	})
	talks := &fakeTalks{getTalk: did.Talk{ID: "tlk_1", Status: "rejected"}}
	svc := newTestService(repo, talks, nil)

	res, err := svc.Reconcile(context.Background(), "u1", id, "tlk_1")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Status != domain.VideoStatusProcessing {
		t.Errorf("status = %s, want processing", res.Status)
	}
	if repo.updates != 0 {
		t.Errorf("record updated on unknown status: %d writes", repo.updates)
	}
}

func TestReconcileDoneWithoutURLKeepsPrior(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{
		AuthorID: "u1",
		Status:   domain.VideoStatusProcessing,
		TalkID:   "tlk_1",
	})
	rewards := &recordedReward{}
	talks := &fakeTalks{getTalk: did.Talk{ID: "tlk_1", Status: "done"}}
	svc := newTestService(repo, talks, rewards)

	res, err := svc.Reconcile(context.Background(), "u1", id, "tlk_1")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Status != domain.VideoStatusProcessing {
		t.Errorf("status = %s, want processing", res.Status)
	}
	if repo.updates != 0 {
		t.Errorf("record updated without a result url: %d writes", repo.updates)
	}
	if rewards.completions != 0 {
		t.Errorf("rewards fired without a result url")
	}
}

func TestReconcileTransientFailureLeavesRecordUntouched(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{
		AuthorID: "u1",
		Status:   domain.VideoStatusProcessing,
		TalkID:   "tlk_1",
	})
	svc := newTestService(repo, &fakeTalks{getErr: errors.New("boom")}, nil)

	_, err := svc.Reconcile(context.Background(), "u1", id, "tlk_1")
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}

	stored, _ := repo.GetByID(context.Background(), id)
	if stored.Status != domain.VideoStatusProcessing {
		t.Errorf("status mutated on transient failure: %s", stored.Status)
	}
}

func TestReconcileRateLimited(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{
		AuthorID: "u1",
		Status:   domain.VideoStatusProcessing,
		TalkID:   "tlk_1",
	})
	svc := newTestService(repo, &fakeTalks{getErr: did.ErrRateLimited}, nil)

	_, err := svc.Reconcile(context.Background(), "u1", id, "tlk_1")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestReconcileOwnershipAndExistence(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{AuthorID: "u1", TalkID: "tlk_1"})
	svc := newTestService(repo, &fakeTalks{}, nil)

	if _, err := svc.Reconcile(context.Background(), "intruder", id, "tlk_1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Reconcile(context.Background(), "u1", 999, "tlk_1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := newFakeVideoRepo()
	id, _ := repo.Create(context.Background(), &domain.VideoRequest{AuthorID: "u1"})
	svc := newTestService(repo, &fakeTalks{}, nil)

	if err := svc.Delete(context.Background(), "intruder", id); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), "u1", id); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("record still present after delete")
	}
}
