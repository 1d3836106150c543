package services

import (
	"context"
	"fmt"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/app/repositories"
	"github.com/openclep/clepfinder/internal/clep"
)

// fakeInstitutionStore serves a fixed institution list from memory.
type fakeInstitutionStore struct {
	institutions []*models.Institution
	listCalls    int
	listErr      error
}

func (f *fakeInstitutionStore) ListInstitutions(ctx context.Context) ([]*models.Institution, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	// Fresh clones each call, the way a repository re-reads rows.
	out := make([]*models.Institution, len(f.institutions))
	for i, inst := range f.institutions {
		out[i] = inst.Clone()
	}
	return out, nil
}

func (f *fakeInstitutionStore) GetByDICode(ctx context.Context, diCode int64) (*models.Institution, error) {
	for _, inst := range f.institutions {
		if inst.DICode == diCode {
			return inst.Clone(), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// fakeOverrideStore keeps overrides keyed by (diCode, exam).
type fakeOverrideStore struct {
	overrides map[string]*models.PolicyOverride
	upsertErr error
	nextID    int64
}

func newFakeOverrideStore() *fakeOverrideStore {
	return &fakeOverrideStore{overrides: map[string]*models.PolicyOverride{}}
}

func overrideKey(diCode int64, exam string) string {
	return fmt.Sprintf("%d|%s", diCode, exam)
}

func (f *fakeOverrideStore) ListByInstitution(ctx context.Context, diCode int64) ([]*models.PolicyOverride, error) {
	var out []*models.PolicyOverride
	for _, o := range f.overrides {
		if o.InstitutionDICode == diCode {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOverrideStore) ListAll(ctx context.Context) ([]*models.PolicyOverride, error) {
	var out []*models.PolicyOverride
	for _, o := range f.overrides {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeOverrideStore) GetByExam(ctx context.Context, diCode int64, examName string) (*models.PolicyOverride, error) {
	if o, ok := f.overrides[overrideKey(diCode, examName)]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOverrideStore) Upsert(ctx context.Context, o *models.PolicyOverride) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if o.ID == 0 {
		f.nextID++
		o.ID = f.nextID
	}
	cp := *o
	f.overrides[overrideKey(o.InstitutionDICode, o.ExamName)] = &cp
	return nil
}

func (f *fakeOverrideStore) DeleteForInstitution(ctx context.Context, diCode int64) (int64, error) {
	var deleted int64
	for key, o := range f.overrides {
		if o.InstitutionDICode == diCode {
			delete(f.overrides, key)
			deleted++
		}
	}
	return deleted, nil
}

// fakeAssistant returns canned responses in order.
type fakeAssistant struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeAssistant) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

// newTestInstitution builds an institution with a full catalog policy
// list and the given accepted exams.
func newTestInstitution(id, diCode int64, name, state string, accepted map[string][2]float64) *models.Institution {
	inst := &models.Institution{
		ID:     id,
		DICode: diCode,
		Name:   name,
		City:   "Springfield",
		State:  state,
	}
	for _, examName := range clep.Catalog() {
		p := models.ExamPolicy{ExamName: examName}
		if terms, ok := accepted[examName]; ok {
			score := int(terms[0])
			credits := terms[1]
			p.MinimumScore = &score
			p.CreditsAwarded = &credits
		}
		inst.Policies = append(inst.Policies, p)
	}
	clep.Recompute(inst)
	return inst
}
