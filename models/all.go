package models

// All returns every persistent model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subsystem{},
		&ProcedureType{},
		&Stage{},
		&Union{},
		&Diagnosis{},
		&Area{},
		&Result{},
		&ViolenceType{},
		&Requester{},
		&Addressee{},
		&CaseStatus{},
		&FolioCounter{},
		&Procedure{},
		&Movement{},
		&Notification{},
		&OfficialLetter{},
		&Worksite{},
		&ProtocolRecord{},
		&InternalControl{},
		&InternalControlStatusHistory{},
		&InternalCase{},
		&CaseStatusHistory{},
	}
}
