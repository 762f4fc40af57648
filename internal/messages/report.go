package messages

// Status report.
const (
	ReportHostHeading       = "Host"
	ReportComponentsHeading = "Components"
	ReportFactHostname      = "hostname"
	ReportFactOS            = "os"
	ReportFactKernel        = "kernel"
	ReportFactPrimaryIP     = "primary ip"
	ReportFactMemory        = "memory"
	ReportFactDisk          = "disk /"
	ReportFactUnknown       = "unknown"
	ReportUsageFmt          = "%s available of %s"
)
