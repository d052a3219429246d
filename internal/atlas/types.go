package atlas

// Project represents an Atlas project (an API "group")
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OrgID        string `json:"orgId,omitempty"`
	Created      string `json:"created,omitempty"`
	ClusterCount int    `json:"clusterCount,omitempty"`
}

// ProviderSettings represents the providerSettings block of a cluster
type ProviderSettings struct {
	ProviderName        string `json:"providerName"`
	BackingProviderName string `json:"backingProviderName,omitempty"`
	InstanceSizeName    string `json:"instanceSizeName"`
	RegionName          string `json:"regionName"`
}

// ConnectionStrings holds the URIs Atlas exposes once a cluster is reachable
type ConnectionStrings struct {
	Standard    string `json:"standard,omitempty"`
	StandardSrv string `json:"standardSrv,omitempty"`
}

// Cluster represents an Atlas cluster. The same shape is used for create
// requests and for responses; response-only fields are omitempty.
type Cluster struct {
	ID                string             `json:"id,omitempty"`
	Name              string             `json:"name"`
	StateName         string             `json:"stateName,omitempty"`
	MongoDBVersion    string             `json:"mongoDBVersion,omitempty"`
	ClusterType       string             `json:"clusterType,omitempty"`
	BackupEnabled     bool               `json:"backupEnabled"`
	ProviderSettings  *ProviderSettings  `json:"providerSettings,omitempty"`
	ConnectionStrings *ConnectionStrings `json:"connectionStrings,omitempty"`
	CreateDate        string             `json:"createDate,omitempty"`
}

// DatabaseUser represents an Atlas database user
type DatabaseUser struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	DatabaseName string `json:"databaseName"`
	Roles        []Role `json:"roles"`
	X509Type     string `json:"x509Type,omitempty"`
}

// Role is a database role grant on a database user
type Role struct {
	RoleName     string `json:"roleName"`
	DatabaseName string `json:"databaseName"`
}

// AccessListEntry is one entry submitted to a project IP access list
type AccessListEntry struct {
	IPAddress string `json:"ipAddress"`
	Comment   string `json:"comment,omitempty"`
}

// Atlas wraps list responses in a results envelope
type projectsPage struct {
	Results    []Project `json:"results"`
	TotalCount int       `json:"totalCount"`
}

type clustersPage struct {
	Results    []Cluster `json:"results"`
	TotalCount int       `json:"totalCount"`
}
