package model

import "time"

// Company は応募先企業を表す。ユーザーごとにスコープされる。
// 応募作成時に企業名から暗黙的に作成される。
type Company struct {
	ID          string
	UserID      string
	Name        string
	WebsiteURL  string
	LinkedinURL string
	CareersURL  string
	HQLocation  string
	Notes       string
	CreatedAt   time.Time
}
