package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Product{},
	&ProductUnit{},
	// Labels
	&PrintLog{},
}
