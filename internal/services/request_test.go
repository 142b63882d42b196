package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/pkg/contextkeys"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTx satisfies pgx.Tx for the engine's transaction plumbing. Commit and
// Rollback release the beginner's lock exactly once; everything else panics
// because the fakes below never touch the tx.
type fakeTx struct {
	pgx.Tx
	once    sync.Once
	release func()
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.done()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.done()
	return nil
}

func (t *fakeTx) done() {
	t.once.Do(func() {
		if t.release != nil {
			t.release()
		}
	})
}

// fakeBeginner serializes transactions with a mutex, mirroring how the row
// lock queues concurrent writers of the same record.
type fakeBeginner struct {
	mu sync.Mutex
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	b.mu.Lock()
	return &fakeTx{release: b.mu.Unlock}, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	nextID   uint64
	requests map[uint64]*entities.MaintenanceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uint64]*entities.MaintenanceRequest)}
}

func cloneRequest(r *entities.MaintenanceRequest) *entities.MaintenanceRequest {
	c := *r
	if r.TeamID != nil {
		v := *r.TeamID
		c.TeamID = &v
	}
	if r.TechnicianID != nil {
		v := *r.TechnicianID
		c.TechnicianID = &v
	}
	if r.ScheduledDate != nil {
		v := *r.ScheduledDate
		c.ScheduledDate = &v
	}
	if r.DurationHours != nil {
		v := *r.DurationHours
		c.DurationHours = &v
	}
	return &c
}

func (f *fakeRequestRepo) GetRequests(ctx context.Context, params utils.QueryParams) ([]entities.MaintenanceRequest, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entities.MaintenanceRequest, 0, len(f.requests))
	for _, r := range f.requests {
		result = append(result, *cloneRequest(r))
	}
	return result, uint64(len(result)), nil
}

func (f *fakeRequestRepo) GetRequestsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entities.MaintenanceRequest, 0)
	for _, r := range f.requests {
		if r.EquipmentID == equipmentID {
			result = append(result, *cloneRequest(r))
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) GetScheduledRequests(ctx context.Context) ([]entities.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entities.MaintenanceRequest, 0)
	for _, r := range f.requests {
		if r.ScheduledDate != nil {
			result = append(result, *cloneRequest(r))
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneRequest(r), nil
}

func (f *fakeRequestRepo) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	return f.FindRequest(ctx, id)
}

func (f *fakeRequestRepo) CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Now()
	f.requests[req.ID] = cloneRequest(req)
	return req.ID, nil
}

func (f *fakeRequestRepo) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[req.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.requests[req.ID] = cloneRequest(req)
	return nil
}

type fakeEquipmentRepo struct {
	mu         sync.Mutex
	equipments map[uint64]*entities.Equipment
	scrapCalls int
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipments: make(map[uint64]*entities.Equipment)}
}

func (f *fakeEquipmentRepo) GetEquipments(ctx context.Context, params utils.QueryParams) ([]entities.Equipment, map[uint64]uint64, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entities.Equipment, 0, len(f.equipments))
	for _, e := range f.equipments {
		result = append(result, *e)
	}
	return result, map[uint64]uint64{}, uint64(len(result)), nil
}

func (f *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.equipments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	equipment.ID = uint64(len(f.equipments) + 1)
	f.equipments[equipment.ID] = equipment
	return equipment.ID, nil
}

func (f *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.equipments[equipment.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.equipments[equipment.ID] = equipment
	return nil
}

func (f *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.equipments, id)
	return nil
}

func (f *fakeEquipmentRepo) SetScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.equipments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.IsScrapped = true
	f.scrapCalls++
	return nil
}

type fakeTeamRepo struct {
	mu      sync.Mutex
	teams   map[uint64]*entities.MaintenanceTeam
	members map[uint64]map[uint64]bool
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[uint64]*entities.MaintenanceTeam),
		members: make(map[uint64]map[uint64]bool),
	}
}

func (f *fakeTeamRepo) GetTeams(ctx context.Context) ([]entities.MaintenanceTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entities.MaintenanceTeam, 0, len(f.teams))
	for _, t := range f.teams {
		result = append(result, *t)
	}
	return result, nil
}

func (f *fakeTeamRepo) FindTeam(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTeamRepo) CreateTeam(ctx context.Context, name string, memberIDs []uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uint64(len(f.teams) + 1)
	f.teams[id] = &entities.MaintenanceTeam{ID: id, Name: name}
	roster := make(map[uint64]bool, len(memberIDs))
	for _, uid := range memberIDs {
		roster[uid] = true
	}
	f.members[id] = roster
	return id, nil
}

func (f *fakeTeamRepo) UpdateTeam(ctx context.Context, id uint64, name *string, memberIDs *[]uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if name != nil {
		t.Name = *name
	}
	if memberIDs != nil {
		roster := make(map[uint64]bool, len(*memberIDs))
		for _, uid := range *memberIDs {
			roster[uid] = true
		}
		f.members[id] = roster
	}
	return nil
}

func (f *fakeTeamRepo) DeleteTeam(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.teams, id)
	delete(f.members, id)
	return nil
}

func (f *fakeTeamRepo) IsMember(ctx context.Context, teamID uint64, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[teamID][userID], nil
}

// engineFixture wires the lifecycle engine against in-memory fakes.
type engineFixture struct {
	svc       *RequestService
	requests  *fakeRequestRepo
	equipment *fakeEquipmentRepo
	teams     *fakeTeamRepo
}

func newEngineFixture() *engineFixture {
	requests := newFakeRequestRepo()
	equipment := newFakeEquipmentRepo()
	teams := newFakeTeamRepo()
	svc := NewRequestService(&fakeBeginner{}, requests, equipment, teams, zap.NewNop())
	return &engineFixture{svc: svc, requests: requests, equipment: equipment, teams: teams}
}

func (f *engineFixture) addTeam(name string, memberIDs ...uint64) uint64 {
	id, _ := f.teams.CreateTeam(context.Background(), name, memberIDs)
	return id
}

func (f *engineFixture) addEquipment(teamID *uint64, scrapped bool) uint64 {
	e := &entities.Equipment{
		Name:         "Assembly Line 3",
		SerialNumber: "AL-0003",
		Category:     entities.CategoryMachinery,
		TeamID:       teamID,
		IsScrapped:   scrapped,
	}
	id, _ := f.equipment.CreateEquipment(context.Background(), e)
	return id
}

func (f *engineFixture) addRequest(equipmentID uint64, teamID *uint64, status entities.RequestStatus) uint64 {
	req := &entities.MaintenanceRequest{
		Subject:     "Belt misalignment",
		EquipmentID: equipmentID,
		RequestType: entities.TypeCorrective,
		Priority:    entities.PriorityMedium,
		TeamID:      teamID,
		Status:      status,
	}
	id, _ := f.requests.CreateRequest(context.Background(), req)
	return id
}

func ctxForUser(userID uint64) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
}

func TestCreateRequestAutoFillsTeamFromEquipment(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)

	created, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Grinding noise from gearbox",
		EquipmentID: equipmentID,
		RequestType: "COR",
	})
	require.NoError(t, err)

	stored, err := f.requests.FindRequest(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TeamID)
	assert.Equal(t, teamID, *stored.TeamID)
	assert.Equal(t, entities.StatusNew, stored.Status)
	assert.Equal(t, entities.PriorityMedium, stored.Priority)
}

func TestCreateRequestExplicitTeamWins(t *testing.T) {
	f := newEngineFixture()
	equipmentTeam := f.addTeam("Mechanics", 1)
	otherTeam := f.addTeam("Electronics", 2)
	equipmentID := f.addEquipment(&equipmentTeam, false)

	created, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Control panel dead",
		EquipmentID: equipmentID,
		RequestType: "COR",
		TeamID:      null.Uint64From(otherTeam),
	})
	require.NoError(t, err)

	stored, _ := f.requests.FindRequest(context.Background(), created.ID)
	assert.Equal(t, otherTeam, *stored.TeamID)
}

func TestCreateRequestScrappedEquipmentRejected(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, true)

	_, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Please fix anyway",
		EquipmentID: equipmentID,
		RequestType: "COR",
	})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentScrapped)
}

func TestCreateRequestUnknownEquipment(t *testing.T) {
	f := newEngineFixture()

	_, err := f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "Ghost machine",
		EquipmentID: 999,
		RequestType: "PRE",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransitionTableEnforced(t *testing.T) {
	statuses := []entities.RequestStatus{
		entities.StatusNew, entities.StatusInProgress,
		entities.StatusRepaired, entities.StatusScrap,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				f := newEngineFixture()
				teamID := f.addTeam("Mechanics", 1)
				equipmentID := f.addEquipment(&teamID, false)
				requestID := f.addRequest(equipmentID, &teamID, from)

				_, err := f.svc.Transition(ctxForUser(1), requestID, to)
				if from.CanTransitionTo(to) {
					require.NoError(t, err)
					stored, _ := f.requests.FindRequest(context.Background(), requestID)
					assert.Equal(t, to, stored.Status)
				} else {
					var transitionErr *apperrors.TransitionError
					require.ErrorAs(t, err, &transitionErr)
					assert.Equal(t, from.Label(), transitionErr.From)
					assert.Equal(t, to.Label(), transitionErr.To)

					stored, _ := f.requests.FindRequest(context.Background(), requestID)
					assert.Equal(t, from, stored.Status, "rejected transition must not change state")
				}
			})
		}
	}
}

func TestAuthorizationRunsBeforeTransitionCheck(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusRepaired)

	// User 2 is not on the team AND Repaired -> In Progress is not a legal
	// edge. The outsider must see the authorization failure, not the
	// state-machine detail.
	_, err := f.svc.Transition(ctxForUser(2), requestID, entities.StatusInProgress)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestTransitionWithoutTeamAuthorizesNoOne(t *testing.T) {
	f := newEngineFixture()
	f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(nil, false)
	requestID := f.addRequest(equipmentID, nil, entities.StatusNew)

	_, err := f.svc.Transition(ctxForUser(1), requestID, entities.StatusInProgress)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCanUserWorkFlipsWithRoster(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	req := &entities.MaintenanceRequest{TeamID: &teamID}

	allowed, err := f.svc.CanUserWork(context.Background(), req, 2)
	require.NoError(t, err)
	assert.False(t, allowed)

	memberIDs := []uint64{1, 2}
	require.NoError(t, f.teams.UpdateTeam(context.Background(), teamID, nil, &memberIDs))

	allowed, err = f.svc.CanUserWork(context.Background(), req, 2)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestStartAssignsActorAsTechnician(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1, 3)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	_, err := f.svc.Transition(ctxForUser(3), requestID, entities.StatusInProgress)
	require.NoError(t, err)

	stored, _ := f.requests.FindRequest(context.Background(), requestID)
	require.NotNil(t, stored.TechnicianID)
	assert.Equal(t, uint64(3), *stored.TechnicianID)
}

func TestStartKeepsExistingTechnician(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1, 3)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	technicianID := uint64(3)
	stored, _ := f.requests.FindRequest(context.Background(), requestID)
	stored.TechnicianID = &technicianID
	f.requests.requests[requestID] = stored

	_, err := f.svc.Transition(ctxForUser(1), requestID, entities.StatusInProgress)
	require.NoError(t, err)

	after, _ := f.requests.FindRequest(context.Background(), requestID)
	assert.Equal(t, technicianID, *after.TechnicianID)
}

func TestSetDurationRequiresRepaired(t *testing.T) {
	for _, status := range []entities.RequestStatus{
		entities.StatusNew, entities.StatusInProgress, entities.StatusScrap,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newEngineFixture()
			teamID := f.addTeam("Mechanics", 1)
			equipmentID := f.addEquipment(&teamID, false)
			requestID := f.addRequest(equipmentID, &teamID, status)

			_, err := f.svc.SetDuration(ctxForUser(1), requestID, 2.0)
			assert.ErrorIs(t, err, apperrors.ErrInvalidDuration)

			stored, _ := f.requests.FindRequest(context.Background(), requestID)
			assert.Nil(t, stored.DurationHours)
		})
	}
}

func TestSetDurationRejectsNegative(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusRepaired)

	_, err := f.svc.SetDuration(ctxForUser(1), requestID, -1.0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDuration)
}

func TestSetDurationOnRepairedRoundTrips(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusRepaired)

	result, err := f.svc.SetDuration(ctxForUser(1), requestID, 3.5)
	require.NoError(t, err)
	require.NotNil(t, result.DurationHours)
	assert.Equal(t, 3.5, *result.DurationHours)
}

func TestCompleteRequestSetsStatusAndHoursTogether(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusInProgress)

	result, err := f.svc.CompleteRequest(ctxForUser(1), requestID, 2.25)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusRepaired), result.Status)
	require.NotNil(t, result.DurationHours)
	assert.Equal(t, 2.25, *result.DurationHours)
}

func TestCompleteRequestFromNewRejected(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	_, err := f.svc.CompleteRequest(ctxForUser(1), requestID, 1.0)
	var transitionErr *apperrors.TransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestScrapFlipsEquipmentFlag(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	_, err := f.svc.Transition(ctxForUser(1), requestID, entities.StatusScrap)
	require.NoError(t, err)

	equipment, err := f.equipment.FindEquipment(context.Background(), equipmentID)
	require.NoError(t, err)
	assert.True(t, equipment.IsScrapped)

	// A second open request on the same equipment can still be scrapped;
	// re-flagging the equipment is a no-op.
	secondID := f.addRequest(equipmentID, &teamID, entities.StatusInProgress)
	_, err = f.svc.Transition(ctxForUser(1), secondID, entities.StatusScrap)
	require.NoError(t, err)
	assert.Equal(t, 2, f.equipment.scrapCalls)
}

func TestUpdateRequestTechnicianMustBeOnTeam(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	_, err := f.svc.UpdateRequest(context.Background(), requestID, dto.UpdateRequestDTO{
		TechnicianID: null.Uint64From(7),
	})
	assert.ErrorIs(t, err, apperrors.ErrTechnicianNotInTeam)
}

func TestUpdateSurvivesEquipmentScrappedLater(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	// Scrap the equipment out of band. Existing requests stay updatable:
	// the scrapped-equipment rule gates creation only.
	require.NoError(t, f.equipment.SetScrappedInTx(context.Background(), nil, equipmentID))

	subject := "Belt misalignment, rechecked"
	_, err := f.svc.UpdateRequest(context.Background(), requestID, dto.UpdateRequestDTO{
		Subject: &subject,
	})
	require.NoError(t, err)
}

// A full repair: the outsider is turned away, the team member takes the
// request through In Progress to Repaired, logs hours, and the terminal state
// rejects a late scrap.
func TestRepairLifecycle(t *testing.T) {
	f := newEngineFixture()
	alice, bob := uint64(1), uint64(2)
	teamID := f.addTeam("Mechanics", alice)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	_, err := f.svc.Transition(ctxForUser(bob), requestID, entities.StatusInProgress)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	result, err := f.svc.Transition(ctxForUser(alice), requestID, entities.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusInProgress), result.Status)

	stored, _ := f.requests.FindRequest(context.Background(), requestID)
	require.NotNil(t, stored.TechnicianID)
	assert.Equal(t, alice, *stored.TechnicianID)

	result, err = f.svc.Transition(ctxForUser(alice), requestID, entities.StatusRepaired)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusRepaired), result.Status)

	result, err = f.svc.SetDuration(ctxForUser(alice), requestID, 3.5)
	require.NoError(t, err)
	assert.Equal(t, 3.5, *result.DurationHours)

	_, err = f.svc.Transition(ctxForUser(alice), requestID, entities.StatusScrap)
	var transitionErr *apperrors.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "Repaired", transitionErr.From)
	assert.Equal(t, "Scrap", transitionErr.To)

	equipment, _ := f.equipment.FindEquipment(context.Background(), equipmentID)
	assert.False(t, equipment.IsScrapped)
}

// Scrapping straight from New marks the equipment, and from then on no new
// request can be opened against it.
func TestScrapLifecycle(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	result, err := f.svc.Transition(ctxForUser(1), requestID, entities.StatusScrap)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusScrap), result.Status)

	equipment, _ := f.equipment.FindEquipment(context.Background(), equipmentID)
	assert.True(t, equipment.IsScrapped)

	_, err = f.svc.CreateRequest(context.Background(), dto.CreateRequestDTO{
		Subject:     "One more try",
		EquipmentID: equipmentID,
		RequestType: "COR",
	})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentScrapped)
}

// Two writers race to start the same request. Exactly one wins; the loser
// re-reads the committed state and gets a transition rejection rather than a
// silent overwrite.
func TestConcurrentTransitionsLoserGetsCleanRejection(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1, 2)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userID := range []uint64{1, 2} {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := f.svc.Transition(ctxForUser(userID), requestID, entities.StatusInProgress)
			errs <- err
		}(userID)
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var transitionErr *apperrors.TransitionError
		require.ErrorAs(t, err, &transitionErr, "loser must get a transition rejection, got: %v", err)
		assert.Equal(t, "In Progress", transitionErr.From)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	stored, _ := f.requests.FindRequest(context.Background(), requestID)
	assert.Equal(t, entities.StatusInProgress, stored.Status)
	require.NotNil(t, stored.TechnicianID)
}

func TestTransitionMissingActor(t *testing.T) {
	f := newEngineFixture()
	teamID := f.addTeam("Mechanics", 1)
	equipmentID := f.addEquipment(&teamID, false)
	requestID := f.addRequest(equipmentID, &teamID, entities.StatusNew)

	_, err := f.svc.Transition(context.Background(), requestID, entities.StatusInProgress)
	assert.True(t, errors.Is(err, apperrors.ErrUserIDNotFoundInContext))
}

func TestTransitionUnknownRequest(t *testing.T) {
	f := newEngineFixture()

	_, err := f.svc.Transition(ctxForUser(1), 42, entities.StatusInProgress)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
