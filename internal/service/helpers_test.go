package service

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
