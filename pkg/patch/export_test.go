package patch

// SetBeforeCommit installs a hook that runs just before the freshness check.
func SetBeforeCommit(p *Patcher, fn func()) {
	p.beforeCommit = fn
}
