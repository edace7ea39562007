package service_test

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/service"
)

var discard = zerolog.New(io.Discard)

func isInvalid(err error) bool { return errors.Is(err, service.ErrInvalidInput) }

func hasField(err error, field string) bool {
	for _, fe := range service.FieldErrors(err) {
		if fe.Field == field {
			return true
		}
	}
	return false
}

type fakeTeamRepo struct {
	nextID    int64
	items     map[int64]model.Team
	createErr error
	getErr    error
	lastPage  repository.Page
	stats     model.TeamAggregatedStats
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, items: map[int64]model.Team{}}
}

func (f *fakeTeamRepo) add(name string) model.Team {
	t, _ := f.Create(context.Background(), model.Team{Name: name, Reputation: 70, StadiumQuality: 60, TrainingFacilityQuality: 60})
	return t
}

func (f *fakeTeamRepo) Create(_ context.Context, t model.Team) (model.Team, error) {
	if f.createErr != nil {
		return model.Team{}, f.createErr
	}
	t.ID = f.nextID
	f.nextID++
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int64) (model.Team, error) {
	if f.getErr != nil {
		return model.Team{}, f.getErr
	}
	it, ok := f.items[id]
	if !ok {
		return model.Team{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeTeamRepo) List(_ context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	f.lastPage = p
	res := repository.PageResult[model.Team]{}
	for _, v := range f.items {
		res.Items = append(res.Items, v)
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakeTeamRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeTeamRepo) GetTeamAggregatedStats(_ context.Context, _ int64, _ *int) (model.TeamAggregatedStats, error) {
	return f.stats, nil
}

type fakePlayerRepo struct {
	nextID    int64
	items     map[int64]model.Player
	rosterErr error
	lastPage  repository.Page
	stats     model.PlayerAggregatedStats
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 100, items: map[int64]model.Player{}}
}

func (f *fakePlayerRepo) squad(teamID int64, positions ...model.Position) {
	for i, pos := range positions {
		_, _ = f.Create(context.Background(), model.Player{
			TeamID: teamID, FirstName: "P", LastName: string(rune('A' + i)), Position: pos,
			Skills: model.UniformSkills(12),
		})
	}
}

func (f *fakePlayerRepo) Create(_ context.Context, p model.Player) (model.Player, error) {
	p.ID = f.nextID
	f.nextID++
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int64) (model.Player, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int64, p repository.Page) (repository.PageResult[model.Player], error) {
	f.lastPage = p
	roster, _ := f.Roster(ctx, teamID)
	return repository.PageResult[model.Player]{Items: roster, Total: len(roster)}, nil
}

func (f *fakePlayerRepo) Roster(_ context.Context, teamID int64) ([]model.Player, error) {
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	var out []model.Player
	for _, p := range f.items {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.Player) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *fakePlayerRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakePlayerRepo) GetPlayerAggregatedStats(_ context.Context, _ int64, _ *int) (model.PlayerAggregatedStats, error) {
	return f.stats, nil
}

type fakeMatchRepo struct {
	nextID     int64
	items      map[int64]model.Match
	events     map[int64][]model.MatchEvent
	stats      map[int64][]model.PlayerMatchStats
	saveErr    error
	saves      int
	lastFilter repository.MatchFilter
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		nextID: 1,
		items:  map[int64]model.Match{},
		events: map[int64][]model.MatchEvent{},
		stats:  map[int64][]model.PlayerMatchStats{},
	}
}

func (f *fakeMatchRepo) Create(_ context.Context, m model.Match) (model.Match, error) {
	m.ID = f.nextID
	f.nextID++
	f.items[m.ID] = m
	return m, nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int64) (model.Match, error) {
	m, ok := f.items[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatchRepo) List(_ context.Context, flt repository.MatchFilter, _ repository.Page) (repository.PageResult[model.Match], error) {
	f.lastFilter = flt
	res := repository.PageResult[model.Match]{}
	for _, m := range f.items {
		res.Items = append(res.Items, m)
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakeMatchRepo) SaveResult(_ context.Context, res model.SimulationResult) (model.SimulationResult, error) {
	f.saves++
	if f.saveErr != nil {
		return model.SimulationResult{}, f.saveErr
	}
	stored, ok := f.items[res.Match.ID]
	if !ok {
		return model.SimulationResult{}, repository.ErrNotFound
	}
	if stored.IsPlayed {
		return model.SimulationResult{}, repository.ErrConflict
	}
	f.items[res.Match.ID] = res.Match
	for i := range res.Events {
		res.Events[i].ID = int64(i + 1)
	}
	f.events[res.Match.ID] = res.Events
	f.stats[res.Match.ID] = res.PlayerStats
	return res, nil
}

func (f *fakeMatchRepo) ListEvents(_ context.Context, matchID int64) ([]model.MatchEvent, error) {
	return f.events[matchID], nil
}

func (f *fakeMatchRepo) ListPlayerStats(_ context.Context, matchID int64) ([]model.PlayerMatchStats, error) {
	return f.stats[matchID], nil
}

// fakeTx runs fn inline and counts calls.
type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	f.calls++
	return fn(ctx)
}

var (
	_ repository.TeamRepository   = (*fakeTeamRepo)(nil)
	_ repository.PlayerRepository = (*fakePlayerRepo)(nil)
	_ repository.MatchRepository  = (*fakeMatchRepo)(nil)
	_ repository.TxManager        = (*fakeTx)(nil)
)
