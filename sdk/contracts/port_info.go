package contracts

// PortInfo describes a port as listed by a backend.
type PortInfo struct {
	Index int    // Index accepted by OpenPort.
	Name  string // Port name reported by the backend.
	API   API    // Backend the port belongs to.
}
