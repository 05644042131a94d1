package codec

var CapacityFor = capacityFor
