package suggest

import "encoding/json"

// Source tags where a result came from.
type Source string

const (
	SourceAI     Source = "AI"
	SourceStatic Source = "STATIC"
)

type ListResult struct {
	Items  []string `json:"items"`
	Source Source   `json:"source"`
}

type DescriptionResult struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// ScoreStatus is the outcome kind of a ScoreResult.
type ScoreStatus string

const (
	ScoreStatusReady   ScoreStatus = "ready"
	ScoreStatusPending ScoreStatus = "pending"
	ScoreStatusFailed  ScoreStatus = "failed"
)

// ScoreResult is one of ScoreReady, ScorePending or ScoreFailed.
type ScoreResult interface {
	Status() ScoreStatus
	isScoreResult()
}

// ScoreReady is a computed score.
type ScoreReady struct {
	Score   int      `json:"score"`
	CVScore int      `json:"cvScore"`
	CVTips  []string `json:"cvTips"`
	Source  Source   `json:"source"`
}

// ScorePending means the resume text is not parsed yet.
type ScorePending struct {
	Message string `json:"message"`
}

// ScoreFailed means the resume text will never be available.
type ScoreFailed struct {
	Message string `json:"message"`
}

func (ScoreReady) Status() ScoreStatus   { return ScoreStatusReady }
func (ScorePending) Status() ScoreStatus { return ScoreStatusPending }
func (ScoreFailed) Status() ScoreStatus  { return ScoreStatusFailed }

func (ScoreReady) isScoreResult()   {}
func (ScorePending) isScoreResult() {}
func (ScoreFailed) isScoreResult()  {}

func (r ScoreReady) MarshalJSON() ([]byte, error) {
	type plain ScoreReady
	return json.Marshal(struct {
		Status ScoreStatus `json:"status"`
		plain
	}{r.Status(), plain(r)})
}

func (r ScorePending) MarshalJSON() ([]byte, error) {
	type plain ScorePending
	return json.Marshal(struct {
		Status ScoreStatus `json:"status"`
		plain
	}{r.Status(), plain(r)})
}

func (r ScoreFailed) MarshalJSON() ([]byte, error) {
	type plain ScoreFailed
	return json.Marshal(struct {
		Status ScoreStatus `json:"status"`
		plain
	}{r.Status(), plain(r)})
}
