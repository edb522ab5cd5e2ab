package builder

// ParseTable builds a table from column definitions, prepending ID.
// Nothing is returned unless every definition is valid.
func ParseTable(name string, column_defs []string) (*Table, error) {
	if err := CheckTableName(name); err != nil {
		return nil, err
	}

	table := NewTable(name)
	for _, def := range column_defs {
		col_name, col_type, err := ParseColumnDef(def)
		if err != nil {
			return nil, err
		}
		if err := CheckColumnRules(table, col_name); err != nil {
			return nil, err
		}
		table.Columns.Push(col_name, col_type)
	}
	return table, nil
}
