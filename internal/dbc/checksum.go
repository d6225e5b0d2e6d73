package dbc

// subaruChecksum sums the address bytes and the payload after byte 0.
func subaruChecksum(address uint32, data []byte) byte {
	sum := 0
	for address > 0 {
		sum += int(address & 0xFF)
		address >>= 8
	}
	for i := 1; i < len(data); i++ {
		sum += int(data[i])
	}
	return byte(sum & 0xFF)
}

// subaruPreGlobalChecksum sums the first seven payload bytes.
func subaruPreGlobalChecksum(data []byte) byte {
	sum := 0
	for i := 0; i < len(data) && i < 7; i++ {
		sum += int(data[i])
	}
	return byte(sum & 0xFF)
}

func (d *DBC) computeChecksum(msg *Message, data []byte) (byte, bool) {
	if _, ok := msg.Signal(SignalChecksum); !ok {
		return 0, false
	}
	switch d.Checksum {
	case ChecksumSubaru:
		return subaruChecksum(msg.Address, data), true
	case ChecksumSubaruPreGlobal:
		return subaruPreGlobalChecksum(data), true
	}
	return 0, false
}
