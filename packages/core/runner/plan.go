package runner

// PlannedCase describes one check in the order RunAll executes it.
type PlannedCase struct {
	Section        string `json:"section,omitempty"`
	Name           string `json:"name"`
	Method         string `json:"method"`
	Endpoint       string `json:"endpoint"`
	ExpectedStatus int    `json:"expectedStatus"`
	// Requires names the earlier check whose result this one depends on.
	Requires string `json:"requires,omitempty"`
}

var plan = []PlannedCase{
	{Name: "API Root Endpoint", Method: "GET", Endpoint: "/api/", ExpectedStatus: 200},
	{Section: SectionAuth, Name: "User Registration", Method: "POST", Endpoint: "/api/auth/register", ExpectedStatus: 200},
	{Section: SectionAuth, Name: "User Login", Method: "POST", Endpoint: "/api/auth/login", ExpectedStatus: 200, Requires: "User Registration"},
	{Section: SectionAuth, Name: "Get User Profile", Method: "GET", Endpoint: "/api/auth/me", ExpectedStatus: 200, Requires: "User Registration"},
	{Section: SectionAuth, Name: "Invalid Login (Expected 401)", Method: "POST", Endpoint: "/api/auth/login", ExpectedStatus: 401, Requires: "User Registration"},
	{Section: SectionCategories, Name: "Default Categories Created", Method: "GET", Endpoint: "/api/categories", ExpectedStatus: 200, Requires: "User Registration"},
	{Section: SectionCategories, Name: "Create Category", Method: "POST", Endpoint: "/api/categories", ExpectedStatus: 200, Requires: "User Registration"},
	{Section: SectionCategories, Name: "Update Category", Method: "PUT", Endpoint: "/api/categories/{id}", ExpectedStatus: 200, Requires: "Create Category"},
	{Section: SectionCategories, Name: "Categories with Progress", Method: "GET", Endpoint: "/api/categories", ExpectedStatus: 200, Requires: "User Registration"},
	{Section: SectionGoals, Name: "Create Goal", Method: "POST", Endpoint: "/api/goals", ExpectedStatus: 200, Requires: "Create Category"},
	{Section: SectionGoals, Name: "Get Goals by Category", Method: "GET", Endpoint: "/api/goals?category_id={id}", ExpectedStatus: 200, Requires: "Create Category"},
	{Section: SectionGoals, Name: "Toggle Goal Completion", Method: "PATCH", Endpoint: "/api/goals/{id}/toggle", ExpectedStatus: 200, Requires: "Create Goal"},
	{Section: SectionGoals, Name: "Update Goal", Method: "PUT", Endpoint: "/api/goals/{id}", ExpectedStatus: 200, Requires: "Create Goal"},
	{Section: SectionGoals, Name: "Delete Goal", Method: "DELETE", Endpoint: "/api/goals/{id}", ExpectedStatus: 200, Requires: "Create Goal"},
	{Section: SectionGoals, Name: "Delete Category", Method: "DELETE", Endpoint: "/api/categories/{id}", ExpectedStatus: 200, Requires: "Create Category"},
}

// Plan returns the checks of a full run in execution order.
func Plan() []PlannedCase {
	return append([]PlannedCase(nil), plan...)
}
