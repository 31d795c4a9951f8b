package dto

// OverviewResponse carries per-collection document counts
type OverviewResponse struct {
	Students     int64 `json:"students"`
	Staff        int64 `json:"staff"`
	Courses      int64 `json:"courses"`
	Subjects     int64 `json:"subjects"`
	Notices      int64 `json:"notices"`
	Materials    int64 `json:"materials"`
	Quizzes      int64 `json:"quizzes"`
	Discussions  int64 `json:"discussions"`
	Posts        int64 `json:"posts"`
	Certificates int64 `json:"certificates"`
}

// DayBucket is one day's count inside a trailing window
type DayBucket struct {
	Day   string `json:"day" example:"2025-04-21"`
	Count int64  `json:"count"`
}

// GroupBucket is one group's count in a grouping pipeline
type GroupBucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}
