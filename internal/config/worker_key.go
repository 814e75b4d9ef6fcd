package config

type WorkerKeyStruct struct {
	AuditPlansQueue string
}

var WorkerKey = &WorkerKeyStruct{
	AuditPlansQueue: "audit_plans_queue",
}
