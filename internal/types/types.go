package types

import (
	"fmt"
	"time"
)

// GoalCategory classifies the area of life a goal targets
type GoalCategory string

const (
	CategoryPhysical  GoalCategory = "physical"
	CategoryMental    GoalCategory = "mental"
	CategoryEmotional GoalCategory = "emotional"
	CategorySpiritual GoalCategory = "spiritual"
	CategorySocial    GoalCategory = "social"
	CategoryCareer    GoalCategory = "career"
	CategoryFinancial GoalCategory = "financial"
)

// IsValid checks if the goal category value is valid
func (c GoalCategory) IsValid() bool {
	switch c {
	case CategoryPhysical, CategoryMental, CategoryEmotional, CategorySpiritual,
		CategorySocial, CategoryCareer, CategoryFinancial:
		return true
	}
	return false
}

// Title returns the category with its first letter upper-cased, for
// phase names like "Physical Development"
func (c GoalCategory) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// GoalPriority represents how urgent a goal is to the member
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "high"
	PriorityMedium GoalPriority = "medium"
	PriorityLow    GoalPriority = "low"
)

// IsValid checks if the goal priority value is valid
func (p GoalPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Timeline represents the member's desired horizon for a goal
type Timeline string

const (
	TimelineOneMonth    Timeline = "1_month"
	TimelineThreeMonths Timeline = "3_months"
	TimelineSixMonths   Timeline = "6_months"
	TimelineOneYear     Timeline = "1_year"
	TimelineOngoing     Timeline = "ongoing"
)

// IsValid checks if the timeline value is valid
func (t Timeline) IsValid() bool {
	switch t {
	case TimelineOneMonth, TimelineThreeMonths, TimelineSixMonths,
		TimelineOneYear, TimelineOngoing:
		return true
	}
	return false
}

// Goal is a single intake goal. Goals are write-once per journey
// generation: editing goals produces a new journey rather than
// mutating an existing one.
type Goal struct {
	Category     GoalCategory `json:"category"`
	Priority     GoalPriority `json:"priority"`
	Timeline     Timeline     `json:"timeline"`
	CurrentLevel int          `json:"current_level"`
	TargetLevel  int          `json:"target_level"`
}

// Validate checks if the goal has valid field values
func (g *Goal) Validate() error {
	if !g.Category.IsValid() {
		return fmt.Errorf("%w: invalid goal category: %s", ErrValidation, g.Category)
	}
	if !g.Priority.IsValid() {
		return fmt.Errorf("%w: invalid goal priority: %s", ErrValidation, g.Priority)
	}
	if !g.Timeline.IsValid() {
		return fmt.Errorf("%w: invalid goal timeline: %s", ErrValidation, g.Timeline)
	}
	if g.CurrentLevel < 1 || g.CurrentLevel > 10 {
		return fmt.Errorf("%w: current_level must be between 1 and 10 (got %d)", ErrValidation, g.CurrentLevel)
	}
	if g.TargetLevel < 1 || g.TargetLevel > 10 {
		return fmt.Errorf("%w: target_level must be between 1 and 10 (got %d)", ErrValidation, g.TargetLevel)
	}
	return nil
}

// SupportSystem rates how much backing the member has from family and friends
type SupportSystem string

const (
	SupportNone     SupportSystem = "none"
	SupportLimited  SupportSystem = "limited"
	SupportModerate SupportSystem = "moderate"
	SupportStrong   SupportSystem = "strong"
)

// IsValid checks if the support system value is valid
func (s SupportSystem) IsValid() bool {
	switch s {
	case SupportNone, SupportLimited, SupportModerate, SupportStrong:
		return true
	}
	return false
}

// ExerciseFrequency represents current exercise habits
type ExerciseFrequency string

const (
	ExerciseNever     ExerciseFrequency = "never"
	ExerciseRarely    ExerciseFrequency = "rarely"
	ExerciseSometimes ExerciseFrequency = "sometimes"
	ExerciseRegularly ExerciseFrequency = "regularly"
	ExerciseDaily     ExerciseFrequency = "daily"
)

// IsValid checks if the exercise frequency value is valid
func (e ExerciseFrequency) IsValid() bool {
	switch e {
	case ExerciseNever, ExerciseRarely, ExerciseSometimes, ExerciseRegularly, ExerciseDaily:
		return true
	}
	return false
}

// DietQuality rates current eating habits
type DietQuality string

const (
	DietPoor      DietQuality = "poor"
	DietFair      DietQuality = "fair"
	DietGood      DietQuality = "good"
	DietExcellent DietQuality = "excellent"
)

// IsValid checks if the diet quality value is valid
func (d DietQuality) IsValid() bool {
	switch d {
	case DietPoor, DietFair, DietGood, DietExcellent:
		return true
	}
	return false
}

// LifestyleSnapshot captures the member's self-reported lifestyle at
// intake time. One snapshot per journey generation; read-only input
// to the evaluator.
type LifestyleSnapshot struct {
	SleepHours        float64           `json:"sleep_hours"`
	StressLevel       int               `json:"stress_level"`
	EnergyLevel       int               `json:"energy_level"`
	SupportSystem     SupportSystem     `json:"support_system"`
	ExerciseFrequency ExerciseFrequency `json:"exercise_frequency"`
	DietQuality       DietQuality       `json:"diet_quality"`
}

// Validate checks if the lifestyle snapshot has valid field values
func (l *LifestyleSnapshot) Validate() error {
	if l.SleepHours < 0 || l.SleepHours > 24 {
		return fmt.Errorf("%w: sleep_hours must be between 0 and 24 (got %.1f)", ErrValidation, l.SleepHours)
	}
	if l.StressLevel < 1 || l.StressLevel > 10 {
		return fmt.Errorf("%w: stress_level must be between 1 and 10 (got %d)", ErrValidation, l.StressLevel)
	}
	if l.EnergyLevel < 1 || l.EnergyLevel > 10 {
		return fmt.Errorf("%w: energy_level must be between 1 and 10 (got %d)", ErrValidation, l.EnergyLevel)
	}
	if !l.SupportSystem.IsValid() {
		return fmt.Errorf("%w: invalid support_system: %s", ErrValidation, l.SupportSystem)
	}
	if !l.ExerciseFrequency.IsValid() {
		return fmt.Errorf("%w: invalid exercise_frequency: %s", ErrValidation, l.ExerciseFrequency)
	}
	if !l.DietQuality.IsValid() {
		return fmt.Errorf("%w: invalid diet_quality: %s", ErrValidation, l.DietQuality)
	}
	return nil
}

// Intensity represents how aggressively the member wants to work
type Intensity string

const (
	IntensityGentle   Intensity = "gentle"
	IntensityModerate Intensity = "moderate"
	IntensityIntense  Intensity = "intense"
)

// IsValid checks if the intensity value is valid
func (i Intensity) IsValid() bool {
	switch i {
	case IntensityGentle, IntensityModerate, IntensityIntense:
		return true
	}
	return false
}

// Frequency represents how often the member wants coaching sessions
type Frequency string

const (
	FrequencyDaily         Frequency = "daily"
	FrequencyEveryOtherDay Frequency = "every_other_day"
	FrequencyWeekly        Frequency = "weekly"
	FrequencyBiWeekly      Frequency = "bi_weekly"
	FrequencyMonthly       Frequency = "monthly"
)

// IsValid checks if the frequency value is valid
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyEveryOtherDay, FrequencyWeekly,
		FrequencyBiWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// SessionDuration represents the member's preferred session length
type SessionDuration string

const (
	Duration15Min SessionDuration = "15_min"
	Duration30Min SessionDuration = "30_min"
	Duration60Min SessionDuration = "60_min"
)

// IsValid checks if the session duration value is valid
func (d SessionDuration) IsValid() bool {
	switch d {
	case Duration15Min, Duration30Min, Duration60Min:
		return true
	}
	return false
}

// Preferences holds the member's pacing preferences for a journey
type Preferences struct {
	Intensity       Intensity       `json:"intensity"`
	Frequency       Frequency       `json:"frequency"`
	SessionDuration SessionDuration `json:"session_duration"`
}

// Validate checks if the preferences have valid field values
func (p *Preferences) Validate() error {
	if !p.Intensity.IsValid() {
		return fmt.Errorf("%w: invalid intensity: %s", ErrValidation, p.Intensity)
	}
	if !p.Frequency.IsValid() {
		return fmt.Errorf("%w: invalid frequency: %s", ErrValidation, p.Frequency)
	}
	if !p.SessionDuration.IsValid() {
		return fmt.Errorf("%w: invalid session_duration: %s", ErrValidation, p.SessionDuration)
	}
	return nil
}

// JourneyType is the classification assigned by the evaluator
type JourneyType string

const (
	JourneyCrisisRecovery JourneyType = "crisis_recovery"
	JourneyComprehensive  JourneyType = "comprehensive"
	JourneyTargeted       JourneyType = "targeted"
	JourneyMaintenance    JourneyType = "maintenance"
)

// IsValid checks if the journey type value is valid
func (j JourneyType) IsValid() bool {
	switch j {
	case JourneyCrisisRecovery, JourneyComprehensive, JourneyTargeted, JourneyMaintenance:
		return true
	}
	return false
}

// Journey is a member's generated wellness plan instance.
// OverallProgress is an aggregate over the journey's recommendations
// and is only ever written by the progress recompute, never directly.
type Journey struct {
	ID                  string      `json:"id"`
	MemberID            string      `json:"member_id"`
	Type                JourneyType `json:"journey_type"`
	EstimatedCompletion time.Time   `json:"estimated_completion"`
	CurrentPhase        string      `json:"current_phase"`
	OverallProgress     float64     `json:"overall_progress"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`

	// Populated on reads that hydrate the full plan
	Phases          []*Phase          `json:"phases,omitempty"`
	Recommendations []*Recommendation `json:"recommendations,omitempty"`
	Insights        []*Insight        `json:"insights,omitempty"`
}

// Phase is a named, ordered stage of a journey. Order values are
// contiguous starting at 1; exactly one phase per journey is current.
type Phase struct {
	ID          string `json:"id"`
	JourneyID   string `json:"journey_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
	IsCurrent   bool   `json:"is_current"`
}

// RecommendationType categorizes what kind of action a recommendation is
type RecommendationType string

const (
	RecMindfulness   RecommendationType = "mindfulness_practice"
	RecWeeklyGoal    RecommendationType = "weekly_activity"
	RecDailyPractice RecommendationType = "daily_practice"
)

// Recommendation is a single actionable suggestion with tracked
// completion progress. Progress is monotonic non-decreasing under
// normal operation.
type Recommendation struct {
	ID               string             `json:"id"`
	JourneyID        string             `json:"journey_id"`
	PhaseID          string             `json:"phase_id"`
	Type             RecommendationType `json:"type"`
	Category         string             `json:"category"`
	Title            string             `json:"title"`
	Priority         int                `json:"priority"`
	EstimatedMinutes int                `json:"estimated_minutes"`
	Progress         float64            `json:"progress"`
	Reasoning        string             `json:"reasoning"`
}

// InsightType categorizes the heuristic that produced an insight
type InsightType string

const (
	InsightRiskAssessment InsightType = "risk_assessment"
	InsightPattern        InsightType = "pattern_recognition"
	InsightOptimization   InsightType = "recommendation_optimization"
)

// ImpactLevel rates how much an insight matters
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Insight is a non-actionable advisory surfaced alongside a journey.
// Insights are generated once at journey creation and never mutated.
type Insight struct {
	ID         string      `json:"id"`
	JourneyID  string      `json:"journey_id"`
	Type       InsightType `json:"type"`
	Message    string      `json:"message"`
	Confidence float64     `json:"confidence"`
	Impact     ImpactLevel `json:"impact_level"`
}

// IntakeSurvey bundles the three evaluator inputs as submitted at intake
type IntakeSurvey struct {
	Goals       []Goal            `json:"goals"`
	Lifestyle   LifestyleSnapshot `json:"lifestyle"`
	Preferences Preferences       `json:"preferences"`
}

// Validate checks the whole survey. A journey needs at least one goal;
// an empty goal list would produce a zero-length plan.
func (s *IntakeSurvey) Validate() error {
	if len(s.Goals) == 0 {
		return fmt.Errorf("%w: at least one goal is required", ErrValidation)
	}
	for i := range s.Goals {
		if err := s.Goals[i].Validate(); err != nil {
			return fmt.Errorf("goal %d: %w", i, err)
		}
	}
	if err := s.Lifestyle.Validate(); err != nil {
		return err
	}
	return s.Preferences.Validate()
}
