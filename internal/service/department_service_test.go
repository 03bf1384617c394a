package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/repository"
	apperrors "github.com/spec-kit/department-service/pkg/util/errorutil"
)

type fakeRepo struct {
	rows   map[int64]domain.Department
	nextID int64
	calls  int
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]domain.Department{}}
}

func (f *fakeRepo) List(context.Context) ([]domain.Department, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Department, 0, len(f.rows))
	for _, d := range f.rows {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeRepo) Create(_ context.Context, dept *domain.Department) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.nextID++
	dept.ID = f.nextID
	f.rows[dept.ID] = *dept
	return nil
}

func (f *fakeRepo) Update(_ context.Context, dept *domain.Department) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[dept.ID]; !ok {
		return repository.ErrNotFound
	}
	f.rows[dept.ID] = *dept
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type recordedEvents struct {
	types []events.EventType
}

func newService(t *testing.T, repo repository.DepartmentRepository, strict bool) (*DepartmentService, *recordedEvents) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	rec := &recordedEvents{}
	for _, et := range []events.EventType{events.EventDepartmentCreated, events.EventDepartmentUpdated, events.EventDepartmentDeleted} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			rec.types = append(rec.types, e.Type)
			return nil
		})
	}
	svc := NewDepartmentService(config.DepartmentsConfig{StrictIDs: strict}, DepartmentDependencies{
		Repo:       repo,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics("test"),
	})
	return svc, rec
}

func assertDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.HTTPStatus != status || de.Message != message {
		t.Fatalf("got %d %q, want %d %q", de.HTTPStatus, de.Message, status, message)
	}
}

func TestCreateListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, rec := newService(t, repo, false)

	created, err := svc.Create(ctx, DepartmentInput{Name: "Cardiology", URL: "/cardiology"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 || list[0] != *created {
		t.Fatalf("list after create: %v %+v", err, list)
	}

	updated, err := svc.Update(ctx, created.ID, DepartmentInput{Name: "Cardiology Dept", URL: "/cardio"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Cardiology Dept" || updated.URL != "/cardio" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil || *got != *updated {
		t.Fatalf("get after update: %v %+v", err, got)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err = svc.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("list after delete: %v %+v", err, list)
	}

	want := []events.EventType{events.EventDepartmentCreated, events.EventDepartmentUpdated, events.EventDepartmentDeleted}
	if len(rec.types) != len(want) {
		t.Fatalf("events %v, want %v", rec.types, want)
	}
	for i := range want {
		if rec.types[i] != want[i] {
			t.Fatalf("events %v, want %v", rec.types, want)
		}
	}
}

func TestValidationNeverTouchesStore(t *testing.T) {
	ctx := context.Background()
	inputs := []DepartmentInput{
		{},
		{Name: "Cardiology"},
		{URL: "/cardiology"},
		{Name: "", URL: "/x"},
	}
	for _, in := range inputs {
		repo := newFakeRepo()
		svc, rec := newService(t, repo, false)

		_, err := svc.Create(ctx, in)
		assertDomainError(t, err, http.StatusBadRequest, MsgFieldsRequired)
		_, err = svc.Update(ctx, 1, in)
		assertDomainError(t, err, http.StatusBadRequest, MsgFieldsRequired)

		if repo.calls != 0 {
			t.Fatalf("input %+v reached the store %d times", in, repo.calls)
		}
		if len(rec.types) != 0 {
			t.Fatalf("no events expected for invalid input")
		}
	}
}

func TestMissingIDLenientByDefault(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService(t, newFakeRepo(), false)

	dept, err := svc.Update(ctx, 42, DepartmentInput{Name: "Ghost", URL: "/ghost"})
	if err != nil {
		t.Fatalf("update missing id: %v", err)
	}
	if dept.ID != 42 || dept.Name != "Ghost" || dept.URL != "/ghost" {
		t.Fatalf("expected echo of input, got %+v", dept)
	}
	if err := svc.Delete(ctx, 42); err != nil {
		t.Fatalf("delete missing id: %v", err)
	}
	if len(rec.types) != 0 {
		t.Fatalf("no events expected when nothing changed, got %v", rec.types)
	}
}

func TestMissingIDStrict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, newFakeRepo(), true)

	_, err := svc.Update(ctx, 42, DepartmentInput{Name: "Ghost", URL: "/ghost"})
	assertDomainError(t, err, http.StatusNotFound, "Department not found")
	err = svc.Delete(ctx, 42)
	assertDomainError(t, err, http.StatusNotFound, "Department not found")
	_, err = svc.Get(ctx, 42)
	assertDomainError(t, err, http.StatusNotFound, "Department not found")
}

func TestStoreFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("database is locked")
	repo := newFakeRepo()
	repo.err = cause
	svc, _ := newService(t, repo, false)

	_, err := svc.List(ctx)
	assertDomainError(t, err, http.StatusInternalServerError, MsgListFailed)
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be retained for logging")
	}
	_, err = svc.Get(ctx, 1)
	assertDomainError(t, err, http.StatusInternalServerError, MsgGetFailed)
	_, err = svc.Create(ctx, DepartmentInput{Name: "a", URL: "b"})
	assertDomainError(t, err, http.StatusInternalServerError, MsgCreateFailed)
	_, err = svc.Update(ctx, 1, DepartmentInput{Name: "a", URL: "b"})
	assertDomainError(t, err, http.StatusInternalServerError, MsgUpdateFailed)
	err = svc.Delete(ctx, 1)
	assertDomainError(t, err, http.StatusInternalServerError, MsgDeleteFailed)
}

func TestFailingSubscriberDoesNotFailRequest(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventDepartmentCreated, func(context.Context, events.Event) error {
		return errors.New("redis down")
	})
	svc := NewDepartmentService(config.DepartmentsConfig{}, DepartmentDependencies{Repo: newFakeRepo(), Dispatcher: dispatcher})
	if _, err := svc.Create(context.Background(), DepartmentInput{Name: "a", URL: "b"}); err != nil {
		t.Fatalf("create should succeed despite subscriber failure: %v", err)
	}
}

func TestParseDepartmentID(t *testing.T) {
	valid := map[string]int64{"1": 1, "42": 42, "9223372036854775807": 9223372036854775807}
	for raw, want := range valid {
		got, err := ParseDepartmentID(raw)
		if err != nil || got != want {
			t.Fatalf("ParseDepartmentID(%q) = %d, %v", raw, got, err)
		}
	}
	for _, raw := range []string{"", "0", "-3", "abc", "1.5", "99999999999999999999"} {
		_, err := ParseDepartmentID(raw)
		assertDomainError(t, err, http.StatusBadRequest, MsgInvalidID)
	}
}
