package model

type Role struct {
	Title    string `json:"title"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
}

type SkillEntry struct {
	Skill     string `json:"skill"`
	AppliedIn string `json:"applied_in,omitempty"`
}

type UserProfile struct {
	CurrentRole      Role         `json:"current_role"`
	PreviousRoles    []Role       `json:"previous_roles,omitempty"`
	TopSkills        []SkillEntry `json:"top_skills,omitempty"`
	SolutionsOffered []string     `json:"solutions_offered,omitempty"`
	CareerHighlights []string     `json:"career_highlights,omitempty"`
}

type TargetProfile struct {
	Type   string   `json:"type"`
	Titles []string `json:"titles"`
	Why    string   `json:"why,omitempty"`
}

type UserObjective struct {
	PersonID       string          `json:"person_id"`
	PrimaryGoal    string          `json:"primary_goal"`
	SecondaryGoals []string        `json:"secondary_goals,omitempty"`
	TargetProfiles []TargetProfile `json:"target_profiles"`
	Exclude        []string        `json:"exclude,omitempty"`
	SuccessSignals []string        `json:"success_signals,omitempty"`
}

type NetworkProfile struct {
	ProfileID string   `json:"profile_id"`
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Company   string   `json:"company,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}

type MatchRequest struct {
	UserProfile     UserProfile      `json:"user_profile" binding:"required"`
	UserObjective   UserObjective    `json:"user_objective" binding:"required"`
	NetworkProfiles []NetworkProfile `json:"network_profiles"`
}
