package tracing

// Names of the tables written by a DBTracer.
const (
	CompletionTable  = "runnable_completion"
	MappingTable     = "runnable_mapping"
	LabelTable       = "label_mapping"
	InstructionTable = "instruction"
	PacketTable      = "packet"
	ModeTable        = "mode_switch"
	PEStatsTable     = "pe_stats"
)

// CompletionEntry is the record of a completed runnable instance. Times are
// in nanoseconds.
type CompletionEntry struct {
	Instance   string
	Runnable   string
	ClassID    int
	TaskID     int
	PeriodID   int
	Priority   int
	PE         string
	Row        int
	Col        int
	Release    float64
	Mapping    float64
	CoreRecv   float64
	Start      float64
	Completion float64
	Execution  float64
	Deadline   float64
	Slack      float64
	Missed     bool
}

// MappingEntry records that an instance was handed to a processing element.
type MappingEntry struct {
	Instance string
	Runnable string
	PeriodID int
	Row      int
	Col      int
	Time     float64
}

// LabelEntry records the home of a label.
type LabelEntry struct {
	Label    string
	LabelID  int
	SizeBits int
	Row      int
	Col      int
	Time     float64
}

// InstructionEntry records the start of an instruction.
type InstructionEntry struct {
	Instance string
	PE       string
	Index    int
	Kind     string
	Cycles   int64
	Duration float64
	Remote   bool
	Time     float64
}

// PacketEntry records a packet delivered by the crossbar.
type PacketEntry struct {
	ID            string
	Kind          string
	Src           string
	Dst           string
	CorrelationID uint64
	Fragment      int
	FragmentCount int
	Size          int
	LabelID       int
	Priority      int
	Inject        float64
	Deliver       float64
	Latency       float64
}

// ModeEntry records a mode switch.
type ModeEntry struct {
	Name string
	File string
	Time float64
}

// PEStatsEntry holds the final counters of a processing element.
type PEStatsEntry struct {
	PE               string
	Row              int
	Col              int
	Admitted         uint64
	Completed        uint64
	DeadlineMisses   uint64
	LocalReads       uint64
	LocalReadBytes   uint64
	LocalWrites      uint64
	LocalWriteBytes  uint64
	RemoteReads      uint64
	RemoteReadBytes  uint64
	RemoteWrites     uint64
	RemoteWriteBytes uint64
	ReadsServed      uint64
	WritesReceived   uint64
	PacketsSent      uint64
	PacketsReceived  uint64
	Computation      float64
}

// Tables maps the name of every table a DBTracer can write to a sample
// entry of its rows.
func Tables() map[string]any {
	return map[string]any{
		CompletionTable:  CompletionEntry{},
		MappingTable:     MappingEntry{},
		LabelTable:       LabelEntry{},
		InstructionTable: InstructionEntry{},
		PacketTable:      PacketEntry{},
		ModeTable:        ModeEntry{},
		PEStatsTable:     PEStatsEntry{},
	}
}
