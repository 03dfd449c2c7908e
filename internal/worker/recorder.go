package worker

import (
	"context"
	"time"

	"issue-tracker/internal/database"
	"issue-tracker/internal/model"
	"issue-tracker/internal/store"
)

// Logger 是 recorder 需要的最小 logger；echo.Logger 即符合
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecordTimeout 是單筆異動紀錄寫入的期限
const RecordTimeout = 5 * time.Second

var createIssueEvent = store.CreateIssueEvent

// EventRecorder 透過 pool 非同步寫入 issue 異動紀錄，失敗只記錄 log
type EventRecorder struct {
	pool   Pool
	db     database.DB
	logger Logger
}

func NewEventRecorder(pool Pool, db database.DB, logger Logger) *EventRecorder {
	return &EventRecorder{pool: pool, db: db, logger: logger}
}

// Record 送出一筆 issue 異動；actorID 為空字串時不記錄操作者
func (r *EventRecorder) Record(issueID int, actorID string, action model.IssueAction) {
	ev := &model.IssueEvent{IssueID: issueID, Action: action}
	if actorID != "" {
		ev.ActorID = &actorID
	}
	r.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), RecordTimeout)
		defer cancel()
		if err := createIssueEvent(ctx, r.db, ev); err != nil {
			r.logger.Errorf("record issue %d %s event: %v", issueID, action, err)
		}
	})
}
