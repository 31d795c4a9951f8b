package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds every repository in the application
type Repositories struct {
	StudentRepository            *StudentRepository
	UserRepository               *UserRepository
	TokenRepository              *TokenRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
	CourseRepository             *CourseRepository
	SubjectRepository            *SubjectRepository
	NoticeRepository             *NoticeRepository
	MaterialRepository           *MaterialRepository
	QuizRepository               *QuizRepository
	DiscussionRepository         *DiscussionRepository
	ChatRepository               *ChatRepository
	TimelineRepository           *TimelineRepository
	CertificateRepository        *CertificateRepository
	AnalyticsRepository          *AnalyticsRepository
}

// NewRepositories creates all repositories with the shared connection pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:            NewStudentRepository(pool),
		UserRepository:               NewUserRepository(pool),
		TokenRepository:              NewTokenRepository(pool),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(pool),
		CourseRepository:             NewCourseRepository(pool),
		SubjectRepository:            NewSubjectRepository(pool),
		NoticeRepository:             NewNoticeRepository(pool),
		MaterialRepository:           NewMaterialRepository(pool),
		QuizRepository:               NewQuizRepository(pool),
		DiscussionRepository:         NewDiscussionRepository(pool),
		ChatRepository:               NewChatRepository(pool),
		TimelineRepository:           NewTimelineRepository(pool),
		CertificateRepository:        NewCertificateRepository(pool),
		AnalyticsRepository:          NewAnalyticsRepository(pool),
	}
}
