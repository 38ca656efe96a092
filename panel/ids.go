package panel

// Element ids the binder looks up after every render.
const (
	IDMount = "app"

	IDForm           = "contentForm"
	IDTitle          = "title"
	IDDescription    = "description"
	IDMaxGroupSize   = "maxGroupSize"
	IDMaxTestRuns    = "maxTestRuns"
	IDMaxSubmissions = "maxSubmissions"
	IDSubmit         = "submitBtn"

	IDRefresh         = "refreshBtn"
	IDAssignExample   = "assignExampleBtn"
	IDUnassignExample = "unassignExampleBtn"
	IDViewSubmissions = "viewSubmissionsBtn"
	IDOpenGitLab      = "openGitLabBtn"
	IDDeploy          = "deployBtn"
	IDCreateChild     = "createChildBtn"
	IDDelete          = "deleteBtn"

	IDEmptyState       = "emptyState"
	IDDeploymentStatus = "deploymentStatus"
	IDNoExample        = "noExample"
)
