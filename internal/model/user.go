// internal/model/user.go
package model

type User struct {
	ID           int    `json:"id" yaml:"id"`
	Email        string `json:"email" yaml:"email"`
	Name         string `json:"name" yaml:"name"`
	CompanyName  string `json:"company_name,omitempty" yaml:"company_name"`
	Industry     string `json:"industry,omitempty" yaml:"industry"`
	AvatarURL    string `json:"avatar_url,omitempty" yaml:"avatar_url"`
	Role         string `json:"role" yaml:"role"`
	Phone        string `json:"phone,omitempty" yaml:"phone"`
	Position     string `json:"position,omitempty" yaml:"position"`
	PasswordHash string `json:"-" yaml:"-"`

	Company       CompanySettings      `json:"company" yaml:"-"`
	Notifications NotificationSettings `json:"notifications" yaml:"-"`
}

type CompanySettings struct {
	CompanyName string `json:"company_name"`
	Website     string `json:"website,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Address     string `json:"address,omitempty"`
}

type NotificationSettings struct {
	CampaignReports bool `json:"campaign_reports"`
	NewLeads        bool `json:"new_leads"`
	SystemUpdates   bool `json:"system_updates"`
}
