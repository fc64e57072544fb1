package playtomic

// tenantAvailability is one court resource in the availability response.
type tenantAvailability struct {
	ResourceID string     `json:"resource_id"`
	StartDate  string     `json:"start_date"`
	Slots      []timeSlot `json:"slots"`
}

type timeSlot struct {
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Price     string `json:"price"`
}

// nextData is the subset of the club page's __NEXT_DATA__ blob describing courts.
type nextData struct {
	Props struct {
		PageProps struct {
			Tenant struct {
				TenantID   string     `json:"tenant_id"`
				TenantName string     `json:"tenant_name"`
				Resources  []resource `json:"resources"`
			} `json:"tenant"`
		} `json:"pageProps"`
	} `json:"props"`
}

type resource struct {
	ResourceID string `json:"resource_id"`
	Name       string `json:"name"`
	Properties struct {
		ResourceType    string `json:"resource_type"`
		ResourceSize    string `json:"resource_size"`
		ResourceFeature string `json:"resource_feature"`
	} `json:"properties"`
}
