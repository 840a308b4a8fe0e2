// Package models holds the request and response bodies exchanged with the
// pulsecheck API.
package models

// User is the profile returned by GET /users.
type User struct {
	Phone        string   `json:"phone"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	TOSAgreement bool     `json:"tosAgreement"`
	Checks       []string `json:"checks"`
}

type NewUser struct {
	Phone        string `json:"phone"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Password     string `json:"password"`
	TOSAgreement bool   `json:"tosAgreement"`
}

// UserPatch carries the fields to change. Empty fields are left untouched
// by the server.
type UserPatch struct {
	Phone     string `json:"phone"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Password  string `json:"password,omitempty"`
}

// Empty reports whether p changes nothing besides naming the user.
func (p UserPatch) Empty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Password == ""
}

type Token struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Expires int64  `json:"expires"`
}

type Check struct {
	ID             string `json:"id"`
	UserPhone      string `json:"userPhone"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type NewCheck struct {
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type CheckPatch struct {
	ID             string `json:"id"`
	Protocol       string `json:"protocol,omitempty"`
	URL            string `json:"url,omitempty"`
	Method         string `json:"method,omitempty"`
	SuccessCodes   []int  `json:"successCodes,omitempty"`
	TimeoutSeconds *int   `json:"timeoutSeconds,omitempty"`
}

// Empty reports whether p changes nothing besides naming the check.
func (p CheckPatch) Empty() bool {
	return p.Protocol == "" && p.URL == "" && p.Method == "" && len(p.SuccessCodes) == 0 && p.TimeoutSeconds == nil
}
