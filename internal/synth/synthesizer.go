package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/pkg/types"
)

// Synthesizer creates the structure of an analysis on the remote tracker
type Synthesizer struct {
	newTracker TrackerFactory
	logger     *zap.Logger
	now        func() time.Time
}

// NewSynthesizer creates a new synthesizer
func NewSynthesizer(factory TrackerFactory, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		newTracker: factory,
		logger:     logger,
		now:        time.Now,
	}
}

// run holds the accumulators of a single synthesis
type run struct {
	tracker    Tracker
	projectKey string
	logger     *zap.Logger

	epicType  string
	storyType string

	epics   []types.Epic
	sprints []types.Sprint
	stories []types.UserStory

	sprintsCreated int
}

// Synthesize creates epics, sprints and stories in that order. Failures on
// individual items are logged and skipped; the report counts what was
// actually created. It never returns an error: failures that stop the whole
// run are reported with Success false.
//
// Once started a run is not cancelled by ctx. Each tracker call is bounded
// by the client timeout instead.
func (s *Synthesizer) Synthesize(ctx context.Context, creds types.JiraCredentials, model types.Analysis) (report types.SyncReport) {
	ctx = context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("synthesis aborted", zap.Any("panic", r))
			report = failure(fmt.Sprintf("erro ao criar estrutura no Jira: %v", r))
		}
	}()

	if err := CheckCredentials(creds); err != nil {
		s.logger.Warn("synthesis skipped, jira credentials incomplete", zap.Error(err))
		return failure(err.Error())
	}

	tracker, err := s.newTracker(creds)
	if err != nil {
		s.logger.Error("failed to create jira client", zap.Error(err))
		return failure(fmt.Sprintf("erro ao conectar ao Jira: %v", err))
	}

	r := &run{
		tracker:    tracker,
		projectKey: creds.ProjectKey,
		logger:     s.logger.With(zap.String("project_key", creds.ProjectKey)),
	}
	r.resolveIssueTypes(ctx)

	r.createEpics(ctx, model.Epics)

	boardID, hasBoard, err := tracker.GetBoardID(ctx, r.projectKey)
	if err != nil {
		r.logger.Error("failed to look up board", zap.Error(err))
		return failure(fmt.Sprintf("erro ao criar estrutura no Jira: %v", err))
	}
	if hasBoard {
		r.createSprints(ctx, boardID, model.Sprints, s.now())
	} else {
		r.logger.Warn("project has no board, sprints will not be created")
	}

	r.createStories(ctx, model.UserStories)

	counts := &types.SyncCounts{
		Epics:   len(r.epics),
		Sprints: r.sprintsCreated,
		Stories: len(r.stories),
	}
	r.logger.Info("synthesis finished",
		zap.Int("epics", counts.Epics),
		zap.Int("sprints", counts.Sprints),
		zap.Int("stories", counts.Stories),
	)

	return types.SyncReport{
		Success: true,
		Message: fmt.Sprintf("Estrutura criada no Jira: %d épicos, %d sprints, %d stories",
			counts.Epics, counts.Sprints, counts.Stories),
		Data:     counts,
		Epics:    r.epics,
		Sprints:  r.createdSprints(),
		Stories:  r.stories,
		Finished: s.now(),
	}
}

func failure(message string) types.SyncReport {
	return types.SyncReport{Success: false, Message: message}
}

func (r *run) resolveIssueTypes(ctx context.Context) {
	available, err := r.tracker.ListIssueTypes(ctx, r.projectKey)
	if err != nil {
		r.logger.Warn("failed to list issue types, using defaults", zap.Error(err))
	}

	r.epicType = ResolveEpicType(available).NameOr(fallbackEpicType)
	r.storyType = ResolveStoryType(available).NameOr(fallbackStoryType)
	r.logger.Debug("resolved issue types",
		zap.String("epic_type", r.epicType),
		zap.String("story_type", r.storyType),
	)
}

func (r *run) createEpics(ctx context.Context, epics []types.Epic) {
	for _, epic := range epics {
		issue, err := r.tracker.CreateIssue(ctx, r.projectKey, epic.Name, EpicDescription(epic), r.epicType)
		if err != nil {
			r.logger.Error("failed to create epic",
				zap.String("epic", epic.Name),
				zap.Error(err),
			)
			continue
		}
		r.epics = append(r.epics, epic.WithRemote(issue.Key, issue.ID))
	}
}

// createSprints keeps one entry per source sprint, in order, so SPRINT-n
// references stay aligned. Failed sprints keep a zero remote id.
func (r *run) createSprints(ctx context.Context, boardID int, sprints []types.Sprint, now time.Time) {
	for _, sprint := range sprints {
		name := TruncateSprintName(sprint.Name)
		start := ToISODate(sprint.StartDate, now)
		end := ToISODate(sprint.EndDate, now)

		id, err := r.tracker.CreateSprint(ctx, boardID, name, start, end, sprint.Objective)
		if err != nil {
			r.logger.Error("failed to create sprint",
				zap.String("sprint", sprint.Name),
				zap.Error(err),
			)
			r.sprints = append(r.sprints, sprint.WithRemote(0))
			continue
		}
		r.sprints = append(r.sprints, sprint.WithRemote(id))
		r.sprintsCreated++
	}
}

func (r *run) createdSprints() []types.Sprint {
	created := make([]types.Sprint, 0, r.sprintsCreated)
	for _, s := range r.sprints {
		if s.RemoteID != 0 {
			created = append(created, s)
		}
	}
	return created
}

func (r *run) createStories(ctx context.Context, stories []types.UserStory) {
	for i, story := range stories {
		issue, err := r.tracker.CreateIssue(ctx, r.projectKey, story.Title, StoryDescription(story), r.storyType)
		if err != nil {
			r.logger.Error("failed to create story",
				zap.String("story_id", story.ID),
				zap.String("story", story.Title),
				zap.Error(err),
			)
			continue
		}
		created := story.WithRemote(issue.Key, issue.ID)
		r.stories = append(r.stories, created)

		r.assign(ctx, created, i, len(stories))
	}
}

func (r *run) assign(ctx context.Context, story types.UserStory, index, total int) {
	a := ResolveSprint(story, index, total, r.sprints)
	if a.Strategy == StrategyNone {
		r.logger.Debug("no sprint available for story", zap.String("story_id", story.ID))
		return
	}

	sprint := r.sprints[a.Index]
	if sprint.RemoteID == 0 {
		r.logger.Error("resolved sprint was not created, story left unassigned",
			zap.String("story_id", story.ID),
			zap.String("sprint", sprint.Name),
			zap.String("strategy", string(a.Strategy)),
		)
		return
	}

	if err := r.tracker.AssignIssueToSprint(ctx, sprint.RemoteID, story.RemoteKey); err != nil {
		r.logger.Error("failed to assign story to sprint",
			zap.String("story_id", story.ID),
			zap.String("issue_key", story.RemoteKey),
			zap.String("sprint", sprint.Name),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("assigned story to sprint",
		zap.String("issue_key", story.RemoteKey),
		zap.String("sprint", sprint.Name),
		zap.String("strategy", string(a.Strategy)),
	)
}

// EpicDescription is the description sent for an epic
func EpicDescription(epic types.Epic) string {
	return fmt.Sprintf("📋 ÉPICO\n%s\n\n📊 STORY POINTS: %d", epic.Description, epic.StoryPoints)
}

// StoryDescription appends the estimate, dates and dependencies, when
// present, to the extracted story description.
func StoryDescription(story types.UserStory) string {
	var b strings.Builder
	b.WriteString(story.Description)
	if story.Hours > 0 {
		fmt.Fprintf(&b, "\n\n⏱️ ESTIMATIVA: %d horas", story.Hours)
	}
	if story.StartDate != "" {
		fmt.Fprintf(&b, "\n📅 DATA INÍCIO: %s", story.StartDate)
	}
	if story.EndDate != "" {
		fmt.Fprintf(&b, "\n📅 DATA FIM: %s", story.EndDate)
	}
	if len(story.Dependencies) > 0 {
		fmt.Fprintf(&b, "\n🔗 DEPENDÊNCIAS: %s", strings.Join(story.Dependencies, ", "))
	}
	return b.String()
}
