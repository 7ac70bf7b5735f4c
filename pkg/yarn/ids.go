package yarn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* id prefixes */
const (
	applicationPrefix = "application"
	attemptPrefix     = "appattempt"
	containerPrefix   = "container"
)

// ApplicationID identifies an application, application_<clusterTimestamp>_<sequence>
type ApplicationID struct {
	ClusterTimestamp int64
	ID               int
}

// ApplicationAttemptID identifies one attempt of an application
type ApplicationAttemptID struct {
	ApplicationID
	Attempt int
}

// ContainerID identifies a container, the optional epoch is kept for String
type ContainerID struct {
	ApplicationAttemptID
	Epoch     int
	HasEpoch  bool
	Container int64
}

func (id ApplicationID) String() string {
	return fmt.Sprintf("%s_%d_%04d", applicationPrefix, id.ClusterTimestamp, id.ID)
}

// IsZero reports whether id was never set
func (id ApplicationID) IsZero() bool {
	return id.ClusterTimestamp == 0 && id.ID == 0
}

func (id ApplicationAttemptID) String() string {
	return fmt.Sprintf("%s_%d_%04d_%06d", attemptPrefix, id.ClusterTimestamp, id.ID, id.Attempt)
}

func (id ContainerID) String() string {
	epoch := ""
	if id.HasEpoch {
		epoch = fmt.Sprintf("e%02d_", id.Epoch)
	}
	return fmt.Sprintf("%s_%s%d_%04d_%02d_%06d", containerPrefix, epoch,
		id.ClusterTimestamp, id.ID, id.Attempt, id.Container)
}

// ParseApplicationID parse application_1410901177871_0001
func ParseApplicationID(s string) (ApplicationID, error) {
	parts := strings.Split(strings.TrimSpace(s), "_")
	if len(parts) != 3 || parts[0] != applicationPrefix {
		return ApplicationID{}, errors.Errorf("invalid application id %q", s)
	}
	return parseAppParts(s, parts[1], parts[2])
}

// ParseApplicationAttemptID parse appattempt_1410901177871_0001_000001
func ParseApplicationAttemptID(s string) (ApplicationAttemptID, error) {
	parts := strings.Split(strings.TrimSpace(s), "_")
	if len(parts) != 4 || parts[0] != attemptPrefix {
		return ApplicationAttemptID{}, errors.Errorf("invalid application attempt id %q", s)
	}
	app, err := parseAppParts(s, parts[1], parts[2])
	if err != nil {
		return ApplicationAttemptID{}, err
	}
	attempt, err := strconv.Atoi(parts[3])
	if err != nil || attempt < 0 {
		return ApplicationAttemptID{}, errors.Errorf("invalid application attempt id %q", s)
	}
	return ApplicationAttemptID{ApplicationID: app, Attempt: attempt}, nil
}

// ParseContainerID parse container_1410901177871_0001_01_000005 or container_e17_1410901177871_0001_01_000005
func ParseContainerID(s string) (ContainerID, error) {
	parts := strings.Split(strings.TrimSpace(s), "_")
	if len(parts) < 5 || parts[0] != containerPrefix {
		return ContainerID{}, errors.Errorf("invalid container id %q", s)
	}
	id := ContainerID{}
	if strings.HasPrefix(parts[1], "e") {
		epoch, err := strconv.Atoi(parts[1][1:])
		if err != nil || epoch < 0 {
			return ContainerID{}, errors.Errorf("invalid container id %q", s)
		}
		id.Epoch, id.HasEpoch = epoch, true
		parts = parts[1:]
	}
	if len(parts) != 5 {
		return ContainerID{}, errors.Errorf("invalid container id %q", s)
	}
	app, err := parseAppParts(s, parts[1], parts[2])
	if err != nil {
		return ContainerID{}, err
	}
	attempt, err := strconv.Atoi(parts[3])
	if err != nil || attempt < 0 {
		return ContainerID{}, errors.Errorf("invalid container id %q", s)
	}
	seq, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil || seq < 0 {
		return ContainerID{}, errors.Errorf("invalid container id %q", s)
	}
	id.ApplicationAttemptID = ApplicationAttemptID{ApplicationID: app, Attempt: attempt}
	id.Container = seq
	return id, nil
}

func parseAppParts(raw, ts, seq string) (ApplicationID, error) {
	clusterTimestamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || clusterTimestamp < 0 {
		return ApplicationID{}, errors.Errorf("invalid cluster timestamp in %q", raw)
	}
	id, err := strconv.Atoi(seq)
	if err != nil || id < 0 {
		return ApplicationID{}, errors.Errorf("invalid sequence number in %q", raw)
	}
	return ApplicationID{ClusterTimestamp: clusterTimestamp, ID: id}, nil
}
